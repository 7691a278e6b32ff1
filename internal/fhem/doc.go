// Package fhem provides an HTTP client for a FHEMWEB instance.
//
// FHEMWEB accepts plain-text FHEM commands on its web endpoint and answers
// jsonlist2 queries with a JSON document describing devices, their readings
// and attributes. This package wraps both:
//
//	client := fhem.NewClientWithURL("http://192.168.1.10:8083/fhem")
//
//	// attr / deleteattr / set
//	if err := client.SetAttr(ctx, "door.sensor", "HomeReadingContact", "state"); err != nil {
//	    log.Fatal(err)
//	}
//
//	// jsonlist2
//	value, ok, err := client.Reading(ctx, "door.sensor", "battery")
//
// # CSRF Tokens
//
// FHEMWEB protects commands with a per-instance token sent in the
// X-FHEM-csrfToken header. The client fetches it lazily, appends it as
// fwcsrf to every command and reloads it once when FHEMWEB rejects it.
//
// # Errors
//
// Every failure is a *ServerError with an ErrorType. Use the Is* helpers
// (IsNetworkError, IsAuthError, IsCommandError, ...) to branch on them and
// GetTroubleshootingHint for user-facing advice. Requests are never retried.
package fhem
