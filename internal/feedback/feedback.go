// Package feedback validates and submits user feedback to an external
// form endpoint.
package feedback

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	SubjectBugReport      = "Bug Report"
	SubjectContributeDev  = "Contribute to Development"
	SubjectContributeFund = "Contribute Funds"
	SubjectWrongTrickInfo = "Wrong Trick Info"
)

// Subjects lists the accepted subjects, default first.
func Subjects() []string {
	return []string{SubjectBugReport, SubjectContributeDev, SubjectContributeFund, SubjectWrongTrickInfo}
}

const (
	MaxNameLen    = 30
	MaxEmailLen   = 30
	MinMessageLen = 20
	MaxMessageLen = 300

	mailSubject = "Feedback from app"
)

var (
	ErrName    = fmt.Errorf("name is required (max %d characters)", MaxNameLen)
	ErrEmail   = fmt.Errorf("email is required (max %d characters)", MaxEmailLen)
	ErrMessage = fmt.Errorf("message must be between %d and %d characters", MinMessageLen, MaxMessageLen)
	ErrSubject = errors.New("unknown subject")
)

type Submission struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Validate returns the first rule the submission breaks.
func (s Submission) Validate() error {
	if n := utf8.RuneCountInString(s.Name); n == 0 || n > MaxNameLen {
		return ErrName
	}
	if n := utf8.RuneCountInString(s.Email); n == 0 || n > MaxEmailLen {
		return ErrEmail
	}
	if n := utf8.RuneCountInString(s.Message); n < MinMessageLen || n > MaxMessageLen {
		return ErrMessage
	}
	if s.Subject != "" && !validSubject(s.Subject) {
		return ErrSubject
	}
	return nil
}

func validSubject(v string) bool {
	for _, s := range Subjects() {
		if s == v {
			return true
		}
	}
	return false
}

// payload is the JSON body the form endpoint expects.
type payload struct {
	ReplyTo     string `json:"_replyto"`
	MailSubject string `json:"_subject"`
	Subject     string `json:"subject"`
	Type        string `json:"type"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Message     string `json:"message"`
}

func (s Submission) payload(replyTo string) payload {
	subject := strings.TrimSpace(s.Subject)
	if subject == "" {
		subject = SubjectBugReport
	}
	return payload{
		ReplyTo:     replyTo,
		MailSubject: mailSubject,
		Subject:     subject,
		Type:        subject,
		FullName:    s.Name,
		Email:       s.Email,
		Message:     s.Message,
	}
}
