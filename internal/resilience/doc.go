// Package resilience groups the failure-isolation helpers used around
// outbound calls. Subpackage circuitbreaker holds the breakers for the LLM
// backends, SendGrid, Telegram and web fetching:
//
//	cb := circuitbreaker.New(circuitbreaker.EmailConfig())
//	id, err := circuitbreaker.Do(cb, func() (string, error) {
//		return send(ctx, msg)
//	})
//
// An open breaker fails fast with circuitbreaker.ErrOpen.
package resilience
