package mailer

import (
	"fmt"
	"time"
)

const signature = `Best regards,

Yong Ma
Principal
StemPro Academy`

// WelcomeMessage greets a newly registered user.
func WelcomeMessage(to, name, role string) Message {
	return Message{
		To:      to,
		Subject: "Welcome to StemPro Academy!",
		Body: fmt.Sprintf(`Dear %s,

Welcome to StemPro Academy! We are thrilled to have you join our learning community as a %s.

Your account has been successfully created. You can now:
- Browse our courses and programs
- Enroll in courses that interest you
- Schedule consultations with our expert instructors
- Access exclusive resources and materials

If you have any questions or need assistance, please don't hesitate to reach out to us at info@stempro.org or call 425-230-0688.

We look forward to supporting you on your STEM education journey!

%s`, name, role, signature),
	}
}

// ResetCodeMessage carries a 6-digit password reset code.
func ResetCodeMessage(to, code string, ttl time.Duration) Message {
	return Message{
		To:      to,
		Subject: "Please don't Reply. StemPro Academy Password Reset Code",
		Body: fmt.Sprintf(`Hi %s,

We received a request to reset your password.
Here's your 6-digit verification code:

%s

This code will expire in %d minutes.

To complete the password reset process:
1. Return to the password reset page
2. Enter the 6-digit code above
3. Create your new password

If you didn't request this password reset, please ignore this email or contact our support team immediately.

For security reasons, please don't share this code with anyone.

Best regards,
StemPro Academy Support Team

This is an automated message, please do not reply to this email.`, to, code, int(ttl.Minutes())),
	}
}

// ResetConfirmationMessage confirms a completed password reset.
func ResetConfirmationMessage(to string) Message {
	return Message{
		To:      to,
		Subject: "Password Reset Confirmation",
		Body: fmt.Sprintf(`Dear %s,

Your password has been reset successfully.

If you did not request this change, please contact us immediately at info@stempro.org.

Thank you and wish you success in your learning journey.

StemPro Academy`, to),
	}
}

// EnrollmentConfirmationMessage confirms a course enrollment request.
func EnrollmentConfirmationMessage(to, name, course string) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Thank you for registering %s at StemPro Academy!", course),
		Body: fmt.Sprintf(`Dear %s,

Thank you for registering for %s at StemPro Academy. We are excited to have you as part of our learning community.

We will get in touch with you soon with more details about the course schedule and next steps.

Meanwhile, if you have any questions, please feel free to contact us at info@stempro.org or call 425-230-0688.

%s`, name, course, signature),
	}
}

// ScheduleConfirmationMessage confirms receipt of a consultation request.
func ScheduleConfirmationMessage(to, firstName string) Message {
	return Message{
		To:      to,
		Subject: "We Look Forward to Meeting With You!",
		Body: fmt.Sprintf(`Dear %s,

We have received your request for a free consultation! Our team will get in touch with you soon to schedule a convenient time.

We look forward to discussing how StemPro Academy can help you achieve your educational goals.

Thank you and wish you success in your learning journey.

%s`, firstName, signature),
	}
}

// ScheduleConfirmedMessage notifies that a consultation slot is booked.
func ScheduleConfirmedMessage(to, firstName string, scheduledDate time.Time) Message {
	return Message{
		To:      to,
		Subject: "Your Consultation is Scheduled - StemPro Academy",
		Body: fmt.Sprintf(`Dear %s,

Great news! Your consultation with StemPro Academy has been scheduled.

Consultation Date & Time: %s

We look forward to discussing how our programs can help you achieve your goals.

Important reminders:
- Please be available at the scheduled time
- Prepare any questions you'd like to discuss
- Have a stable internet connection for the video call

If you need to reschedule, please contact us at least 24 hours in advance.

%s`, firstName, scheduledDate.Format("January 2, 2006 at 3:04 PM"), signature),
	}
}

// ApplicationConfirmationMessage confirms receipt of a job application.
func ApplicationConfirmationMessage(to, name, position string) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Application Received - %s", position),
		Body: fmt.Sprintf(`Dear %s,

Thank you for applying for the %s position at StemPro Academy.

We have received your application and our team will review it carefully. If your background matches our needs, we will reach out to schedule a conversation.

%s`, name, position, signature),
	}
}

// ApplicationNotificationMessage alerts the admin inbox to a new application.
func ApplicationNotificationMessage(to, name, position, applicantEmail string) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("New Job Application: %s", position),
		Body: fmt.Sprintf(`A new job application has been submitted.

Name: %s
Position: %s
Email: %s

Review it in the admin dashboard.`, name, position, applicantEmail),
	}
}

// SignupConfirmationMessage confirms an early-access signup.
func SignupConfirmationMessage(to, name string) Message {
	return Message{
		To:      to,
		Subject: "Welcome to CollegeNinja Early Access!",
		Body: fmt.Sprintf(`Dear %s,

Thank you for signing up for CollegeNinja: Code-to-Campus early access!

You are on the list. We will reach out as soon as the program opens with next steps and onboarding details.

%s`, name, signature),
	}
}

// SignupNotificationMessage alerts the admin inbox to a new signup.
func SignupNotificationMessage(to, kind, name, email, detail string) Message {
	body := fmt.Sprintf(`A new CollegeNinja %s signup has been submitted.

Name: %s
Email: %s`, kind, name, email)
	if detail != "" {
		body += fmt.Sprintf("\nGrade Level: %s", detail)
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("New CollegeNinja Signup (%s)", kind),
		Body:    body,
	}
}
