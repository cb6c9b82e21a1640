package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("DS_TEST_STRING", "  report.db ")
	assert.Equal(t, "report.db", GetEnvString("DS_TEST_STRING", "history.db"))
	assert.Equal(t, "history.db", GetEnvString("DS_TEST_UNSET", "history.db"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "unset", value: "", want: 12000},
		{name: "valid", value: "8000", want: 8000},
		{name: "negative", value: "-1", want: -1},
		{name: "garbage", value: "12k", want: 12000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DS_TEST_INT", tt.value)
			assert.Equal(t, tt.want, GetEnvInt("DS_TEST_INT", 12000))
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "", want: true},
		{value: "false", want: false},
		{value: "FALSE", want: false},
		{value: "0", want: false},
		{value: "True", want: true},
		{value: "nope", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("DS_TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, GetEnvBool("DS_TEST_BOOL", true))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("DS_TEST_DURATION", "45s")
	assert.Equal(t, 45*time.Second, GetEnvDuration("DS_TEST_DURATION", time.Minute))

	t.Setenv("DS_TEST_DURATION", "45")
	assert.Equal(t, time.Minute, GetEnvDuration("DS_TEST_DURATION", time.Minute))
}

func TestGetEnvStringList(t *testing.T) {
	t.Setenv("DS_TEST_LIST", " a@example.com, ,b@example.com ,")
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, GetEnvStringList("DS_TEST_LIST", nil))

	t.Setenv("DS_TEST_LIST", " , ")
	assert.Equal(t, []string{"flash"}, GetEnvStringList("DS_TEST_LIST", []string{"flash"}))
}
