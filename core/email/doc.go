// Package email defines the verification-mail contract shared by every
// delivery backend: the Sender interface, message composition and the
// failure taxonomy.
//
// # Composition
//
// BuildVerificationMessage turns (sender, recipient, code) into an RFC 5322
// message with a multipart/alternative body. The plain-text part comes
// first and the HTML part second, so clients pick the richest one they can
// render:
//
//	msg, err := email.BuildVerificationMessage(
//		"noreply@example.com", "user@example.com", "1234", time.Now(),
//	)
//	if err != nil {
//		// email.KindOf(err) is KindInvalidSender, KindInvalidRecipient or KindBuild
//	}
//	// msg.Raw holds the serialized message, msg.From/msg.To the envelope.
//
// Composition never touches the network, so address errors are reported
// before any SMTP connection is opened.
//
// # Error Handling
//
// Every delivery failure is an *Error carrying a Kind, the failing
// operation and, when the server answered, the SMTP reply code and text.
// All of them also match ErrFailedToSendEmail:
//
//	err := sender.SendVerification(ctx, params)
//	switch {
//	case errors.Is(err, email.ErrInvalidParams):
//		// empty recipient or code
//	case email.KindOf(err) == email.KindAuth:
//		// credentials rejected (535)
//	case errors.Is(err, email.ErrFailedToSendEmail):
//		// any other classified failure
//	}
//
// # Development Mode
//
// DevSender writes composed messages to a directory instead of sending
// them:
//
//	sender := email.NewDevSender("./dev_emails", "noreply@example.com")
//
//	// Files created:
//	// ./dev_emails/2024_01_15_143052.000000_your_verification_code.eml
//	// ./dev_emails/2024_01_15_143052.000000_your_verification_code.json
package email
