package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/toneforge/toneforge-api/internal/config"
	"github.com/toneforge/toneforge-api/internal/models"
	"gorm.io/gorm"
)

// EmailService sends account and invitation emails via AWS SES, grounded on
// the teacher's email.go but moved to aws-sdk-go-v2 — the teacher's own
// go.mod treats v1 as superseded, so the v1 SES client is not carried here.
type EmailService struct {
	db        *gorm.DB
	cfg       *config.Config
	sesClient *ses.Client
}

func NewEmailService(db *gorm.DB, cfg *config.Config) (*EmailService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("email service: load aws config: %w", err)
	}

	return &EmailService{
		db:        db,
		cfg:       cfg,
		sesClient: ses.NewFromConfig(awsCfg),
	}, nil
}

const (
	tokenBytes              = 32
	verificationTokenExpiry = 24 * time.Hour
)

// GenerateVerificationToken creates a new email verification token.
func (s *EmailService) GenerateVerificationToken(userID uint) (string, error) {
	randomBytes := make([]byte, tokenBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(randomBytes)

	verificationToken := models.EmailVerificationToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(verificationTokenExpiry),
	}
	if err := s.db.Create(&verificationToken).Error; err != nil {
		return "", err
	}
	return token, nil
}

const verificationSubject = "Verify your email - ToneForge"

var verificationHTMLTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>` + verificationSubject + `</title></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Welcome, {{.Name}}!</h2>
    <p>Verify your email address to start mapping tones onto your host.</p>
    <p><a href="{{.VerificationURL}}">Verify Email Address</a></p>
    <p style="color: #999; font-size: 12px;">This link expires in 24 hours.</p>
</body>
</html>`

// SendVerificationEmail sends a verification email to the user.
func (s *EmailService) SendVerificationEmail(user *models.User, token string) error {
	verificationURL := fmt.Sprintf("%s/verify-email?token=%s", s.cfg.FrontendURL, token)

	tmpl, err := template.New("verification").Parse(verificationHTMLTemplate)
	if err != nil {
		return err
	}
	var htmlBody bytes.Buffer
	if err := tmpl.Execute(&htmlBody, map[string]string{"Name": user.Name, "VerificationURL": verificationURL}); err != nil {
		return err
	}

	textBody := fmt.Sprintf("Welcome to ToneForge, %s!\n\nVerify your email address:\n%s\n\nThis link expires in 24 hours.\n",
		user.Name, verificationURL)

	return s.send(user.Email, verificationSubject, htmlBody.String(), textBody)
}

// VerifyEmail verifies an email using the provided token.
func (s *EmailService) VerifyEmail(token string) error {
	var verificationToken models.EmailVerificationToken
	if err := s.db.Where("token = ?", token).First(&verificationToken).Error; err != nil {
		return fmt.Errorf("invalid verification token")
	}
	if verificationToken.UsedAt != nil {
		return fmt.Errorf("verification token already used")
	}
	if time.Now().After(verificationToken.ExpiresAt) {
		return fmt.Errorf("verification token expired")
	}

	tx := s.db.Begin()
	now := time.Now()
	verificationToken.UsedAt = &now
	if err := tx.Save(&verificationToken).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Model(&models.User{}).Where("id = ?", verificationToken.UserID).Updates(map[string]interface{}{
		"email_verified": true,
		"verified_at":    now,
	}).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// ResendVerificationEmail generates a new token and resends the verification email.
func (s *EmailService) ResendVerificationEmail(email string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return fmt.Errorf("user not found")
	}
	if user.EmailVerified {
		return fmt.Errorf("email already verified")
	}

	s.db.Where("user_id = ? AND used_at IS NULL", user.ID).Update("used_at", time.Now())

	token, err := s.GenerateVerificationToken(user.ID)
	if err != nil {
		return err
	}
	return s.SendVerificationEmail(&user, token)
}

const invitationSubject = "You're invited to ToneForge"

var invitationHTMLTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>` + invitationSubject + `</title></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>You're invited!</h2>
    <p>You've been invited to ToneForge, an LLM-assisted tone mapper for your DAW.</p>
    {{if .Note}}<p style="font-style: italic;">Note: {{.Note}}</p>{{end}}
    <p><a href="{{.SignupURL}}">Accept invitation &amp; set password</a></p>
</body>
</html>`

// SendInvitationEmail sends an invitation code to a potential user.
func (s *EmailService) SendInvitationEmail(email, code, note string) error {
	signupURL := fmt.Sprintf("%s/auth/accept-invitation?email=%s&code=%s", s.cfg.FrontendURL, email, code)

	tmpl, err := template.New("invitation").Parse(invitationHTMLTemplate)
	if err != nil {
		return err
	}
	var htmlBody bytes.Buffer
	if err := tmpl.Execute(&htmlBody, map[string]string{"Code": code, "Note": note, "SignupURL": signupURL}); err != nil {
		return err
	}

	textBody := fmt.Sprintf("You're invited to ToneForge!\n\nAccept your invitation:\n%s\n", signupURL)

	return s.send(email, invitationSubject, htmlBody.String(), textBody)
}

func (s *EmailService) send(to, subject, htmlBody, textBody string) error {
	_, err := s.sesClient.SendEmail(context.Background(), &ses.SendEmailInput{
		Source:      &s.cfg.EmailFrom,
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: &subject, Charset: strPtr("UTF-8")},
			Body: &types.Body{
				Html: &types.Content{Data: &htmlBody, Charset: strPtr("UTF-8")},
				Text: &types.Content{Data: &textBody, Charset: strPtr("UTF-8")},
			},
		},
	})
	return err
}

func strPtr(s string) *string { return &s }
