package mail

import (
	"fmt"
	"html"
)

const layout = `<!DOCTYPE html>
<html>
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <title>%s</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f4f5f7; }
    .container { max-width: 560px; margin: 0 auto; background-color: #ffffff; }
    .header { background: #1e3a8a; padding: 32px 24px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 22px; }
    .content { padding: 32px 24px; color: #1f2937; line-height: 1.6; font-size: 15px; }
    .code { font-size: 32px; letter-spacing: 8px; font-weight: 700; text-align: center; margin: 24px 0; color: #1e3a8a; }
    .footer { padding: 24px; text-align: center; color: #6b7280; font-size: 12px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><h1>%s</h1></div>
    <div class="content">%s</div>
    <div class="footer">You received this email because someone used this address on Campus Events. If that wasn't you, ignore it.</div>
  </div>
</body>
</html>`

func render(title, body string) string {
	t := html.EscapeString(title)
	return fmt.Sprintf(layout, t, t, body)
}

// ClubAccessOTPEmail builds the organizer access code email.
func ClubAccessOTPEmail(to, clubName, code string) Message {
	subject := fmt.Sprintf("Your access code for %s", clubName)
	body := fmt.Sprintf(`<p>Use this code to unlock organizer access for <strong>%s</strong>:</p>
<div class="code">%s</div>
<p>The code expires in 10 minutes and can only be used once.</p>`,
		html.EscapeString(clubName), html.EscapeString(code))
	return Message{
		To:      to,
		Subject: subject,
		HTML:    render(subject, body),
		Text:    fmt.Sprintf("Your organizer access code for %s is %s. It expires in 10 minutes.", clubName, code),
	}
}

// ClubPinEmail builds the club registration PIN email.
func ClubPinEmail(to, clubName, pin string) Message {
	subject := fmt.Sprintf("Verify %s on Campus Events", clubName)
	body := fmt.Sprintf(`<p>Someone registered <strong>%s</strong> with this official club address.</p>
<p>Enter this PIN to finish verifying the club:</p>
<div class="code">%s</div>
<p>The PIN is valid for 48 hours.</p>`,
		html.EscapeString(clubName), html.EscapeString(pin))
	return Message{
		To:      to,
		Subject: subject,
		HTML:    render(subject, body),
		Text:    fmt.Sprintf("Your verification PIN for %s is %s. It is valid for 48 hours.", clubName, pin),
	}
}
