/*
Package notesdk is a small client for the notes web application.

The application is browser first: sessions live in two cookies and every
request must carry fetch metadata. The SDK does both for you so scripts and
end-to-end tests can drive it like a browser would.

	client := notesdk.NewClient("http://localhost:8080")

	// Health
	health, err := client.GetLiveness(ctx)

	// Ask for a sign-in link and open it
	err = client.RequestLoginLink(ctx, "me@example.com")
	session, err := client.OpenSignInLink(ctx, linkFromEmail)

	// Authenticated calls
	created, err := session.CreateNote(ctx, "buy milk")

A Session picks up rotated cookies from every response, so a refreshed
bearer token is used on the next call.
*/
package notesdk
