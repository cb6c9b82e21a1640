package dispatch

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDispatch(t *testing.T) {
	for _, channel := range []string{"email", "telegram"} {
		t.Run(channel, func(t *testing.T) {
			initial := testutil.ToFloat64(notificationDispatchedTotal.WithLabelValues(channel))

			RecordDispatch(channel)

			assert.Equal(t, initial+1, testutil.ToFloat64(notificationDispatchedTotal.WithLabelValues(channel)))
		})
	}
}

func TestRecordSuccessAndFailure(t *testing.T) {
	success := testutil.ToFloat64(notificationSentTotal.WithLabelValues("email", "success"))
	failure := testutil.ToFloat64(notificationSentTotal.WithLabelValues("email", "failure"))

	RecordSuccess("email", 300*time.Millisecond)
	RecordFailure("email", 2*time.Second)

	assert.Equal(t, success+1, testutil.ToFloat64(notificationSentTotal.WithLabelValues("email", "success")))
	assert.Equal(t, failure+1, testutil.ToFloat64(notificationSentTotal.WithLabelValues("email", "failure")))
}

func TestRecordDropped(t *testing.T) {
	initial := testutil.ToFloat64(notificationDroppedTotal.WithLabelValues("telegram", "disabled"))

	RecordDropped("telegram", "disabled")

	assert.Equal(t, initial+1, testutil.ToFloat64(notificationDroppedTotal.WithLabelValues("telegram", "disabled")))
}
