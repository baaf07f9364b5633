package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"trickadex/internal/feedback"
)

type feedbackFlags struct {
	name    string
	email   string
	subject string
	message string
}

func (f feedbackFlags) complete() bool {
	return f.name != "" && f.email != "" && f.message != ""
}

func (f feedbackFlags) submission() feedback.Submission {
	return feedback.Submission{
		Name:    strings.TrimSpace(f.name),
		Email:   strings.TrimSpace(f.email),
		Subject: f.subject,
		Message: strings.TrimSpace(f.message),
	}
}

func newFeedbackCmd(flags *rootFlags) *cobra.Command {
	ff := &feedbackFlags{}
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Send feedback, a bug report or a trick correction",
		Long: "Send feedback to the trickadex maintainers. Without --name, --email and\n" +
			"--message an interactive form collects the fields.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.config(cmd)
			if err != nil {
				return err
			}
			if !ff.complete() {
				if err := feedbackForm(ff).RunWithContext(cmd.Context()); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						fmt.Fprintln(cmd.ErrOrStderr(), "Feedback cancelled.")
						return nil
					}
					return err
				}
			}
			sub := ff.submission()
			if err := sub.Validate(); err != nil {
				return err
			}

			client := feedback.NewClient(cfg.Feedback.Endpoint,
				feedback.WithReplyTo(cfg.Feedback.ReplyTo),
				feedback.WithTimeout(15*time.Second),
			)
			ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
			defer cancel()
			if err := client.Submit(ctx, sub); err != nil {
				if errors.Is(err, feedback.ErrNoEndpoint) {
					return fmt.Errorf("%w: set --feedback-endpoint or TRICKADEX_FEEDBACK_ENDPOINT", err)
				}
				return fmt.Errorf("send feedback: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Thanks! Your feedback was sent.")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&ff.name, "name", "", "your name")
	f.StringVar(&ff.email, "email", "", "address to reply to")
	f.StringVar(&ff.subject, "subject", feedback.SubjectBugReport, "one of: "+strings.Join(feedback.Subjects(), ", "))
	f.StringVar(&ff.message, "message", "", "the feedback itself")
	return cmd
}

func feedbackForm(ff *feedbackFlags) *huh.Form {
	if ff.subject == "" {
		ff.subject = feedback.SubjectBugReport
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				CharLimit(feedback.MaxNameLen).
				Value(&ff.name).
				Validate(requiredWithin("name", feedback.MaxNameLen)),
			huh.NewInput().
				Title("Email").
				CharLimit(feedback.MaxEmailLen).
				Value(&ff.email).
				Validate(requiredWithin("email", feedback.MaxEmailLen)),
			huh.NewSelect[string]().
				Title("Subject").
				Options(huh.NewOptions(feedback.Subjects()...)...).
				Value(&ff.subject),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Message").
				Description(fmt.Sprintf("%d to %d characters", feedback.MinMessageLen, feedback.MaxMessageLen)).
				CharLimit(feedback.MaxMessageLen).
				Value(&ff.message).
				Validate(messageLength),
		),
	)
}

func requiredWithin(field string, limit int) func(string) error {
	return func(v string) error {
		n := utf8.RuneCountInString(strings.TrimSpace(v))
		if n == 0 {
			return fmt.Errorf("%s is required", field)
		}
		if n > limit {
			return fmt.Errorf("%s must be at most %d characters", field, limit)
		}
		return nil
	}
}

func messageLength(v string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(v))
	if n < feedback.MinMessageLen || n > feedback.MaxMessageLen {
		return feedback.ErrMessage
	}
	return nil
}
