package service

import "fmt"

const codeBlock = `<h2 style="background: #f0f0f0; padding: 15px; text-align: center; font-size: 32px; letter-spacing: 5px;">%s</h2>`

func verificationBody(code string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h1 style="color: #82368C;">Welcome to Iqra AI</h1>
			<p>Your verification code is:</p>
			`+codeBlock+`
			<p>Enter this code in your Iqra AI app to verify your account.</p>
			<p>This code will expire in 1 hour.</p>
		</div>
	`, code)
}

func resendBody(code string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h1 style="color: #82368C;">Iqra AI Verification</h1>
			<p>Your new verification code is:</p>
			`+codeBlock+`
			<p>This code will expire in 1 hour.</p>
		</div>
	`, code)
}

func resetBody(code string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h1 style="color: #82368C;">Password Reset Code</h1>
			<p>Your password reset code is:</p>
			`+codeBlock+`
			<p>Enter this code in your Iqra AI app to reset your password.</p>
			<p>This code will expire in 1 hour.</p>
		</div>
	`, code)
}
