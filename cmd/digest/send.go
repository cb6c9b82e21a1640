package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"daily-summary/internal/app"
	"daily-summary/internal/config"
	"daily-summary/internal/usecase/report"
)

type sendFlags struct {
	in            inputFlags
	email         bool
	telegram      bool
	subjectPrefix string
	yes           bool
	pdfPath       string
	profilePath   string
	dryRun        bool
}

func newSendCmd(s *session) *cobra.Command {
	var f sendFlags
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Summarize, preview and send the report",
		Long: "Summarize the inputs, print the preview and, once confirmed, send it.\n" +
			"Without --email or --telegram every configured channel is used.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, s, &f)
		},
	}
	f.in.register(cmd)
	cmd.Flags().BoolVar(&f.email, "email", false, "send by email")
	cmd.Flags().BoolVar(&f.telegram, "telegram", false, "send to Telegram")
	cmd.Flags().StringVar(&f.subjectPrefix, "subject-prefix", "", "subject prefix (default from REPORT_SUBJECT_PREFIX)")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "send without asking for confirmation")
	cmd.Flags().StringVar(&f.pdfPath, "pdf", "", "also write the report as a PDF to this path")
	cmd.Flags().StringVar(&f.profilePath, "profile", "", "YAML report profile (default from REPORT_PROFILE)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "log the messages instead of sending them")
	return cmd
}

func runSend(cmd *cobra.Command, s *session, f *sendFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	lang, err := f.in.language()
	if err != nil {
		return err
	}

	profilePath := f.profilePath
	if profilePath == "" {
		profilePath = s.cfg.Report.ProfilePath
	}
	var profile *config.ReportProfile
	if profilePath != "" {
		if profile, err = config.LoadReportProfile(profilePath); err != nil {
			return err
		}
	}

	email, telegram := f.email, f.telegram
	if !cmd.Flags().Changed("email") && !cmd.Flags().Changed("telegram") {
		email, telegram = profile.Select(s.cfg.EmailEnabled(), s.cfg.TelegramEnabled())
	}
	if !email && !telegram {
		return errors.New("no channel selected: pass --email and/or --telegram or configure SendGrid or Telegram")
	}
	if !cmd.Flags().Changed("lang") && profile.LanguageValue() != "" {
		lang = profile.LanguageValue()
	}
	sources := f.in.files
	if len(sources) == 0 && f.in.text == "" {
		sources = profile.Sources(nil)
	}
	prefix := f.subjectPrefix
	if prefix == "" {
		prefix = profile.Prefix("")
	}

	a, err := s.app(ctx, app.Options{DryRun: f.dryRun})
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.Report.Preview(ctx, report.PreviewInput{
		Pasted:   f.in.text,
		Sources:  sources,
		Language: lang,
	})
	if err != nil {
		return err
	}

	subject := a.Report.Subject(prefix)
	fmt.Fprintf(out, "%s\n\n%s\n\n", subject, summary.Text)

	if !f.yes {
		ok, err := confirm(cmd.InOrStdin(), out, channelList(email, telegram))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Cancelled, nothing was sent.")
			return nil
		}
	}

	result, err := a.Report.Confirm(ctx, summary, report.SendOptions{
		Email:         email,
		Telegram:      telegram,
		SubjectPrefix: prefix,
	})
	if result != nil {
		fmt.Fprintf(out, "Email sent: %t\nTelegram sent: %t\n", result.Sent.Email, result.Sent.Telegram)
		if result.HistoryID > 0 {
			fmt.Fprintf(out, "Saved to history as #%d\n", result.HistoryID)
		}
	}
	if err != nil {
		return err
	}

	if f.pdfPath != "" {
		doc, err := a.Report.RenderPDF(result.Subject, summary.Text)
		if err != nil {
			return err
		}
		if err := os.WriteFile(f.pdfPath, doc, 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		fmt.Fprintf(out, "PDF written to %s\n", f.pdfPath)
	}
	return nil
}

func channelList(email, telegram bool) string {
	var names []string
	if email {
		names = append(names, "email")
	}
	if telegram {
		names = append(names, "telegram")
	}
	return strings.Join(names, " and ")
}

// confirm asks on out and reads one answer from in. Only y and yes accept.
func confirm(in io.Reader, out io.Writer, channels string) (bool, error) {
	fmt.Fprintf(out, "Send to %s? [y/N]: ", channels)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
