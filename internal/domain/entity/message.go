package entity

// Message is what a delivery channel sends: the email subject and the shared body.
type Message struct {
	Subject  string
	Body     string
	Language Language
}
