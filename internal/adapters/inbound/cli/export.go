package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Hannlytics/rams-generator/internal/adapters/outbound/gitinfo"
	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format  string
		outDir  string
		noStamp bool
	)

	cmd := &cobra.Command{
		Use:   "export <form.json>",
		Short: "Export a RAMS form as PDF or Word",
		Long: "Render the form as a PDF or Word document with the legal disclaimer. When the form " +
			"lives in a git repository and has no revision number, the short HEAD commit is stamped on it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docFormat, err := domain.ParseDocumentFormat(format)
			if err != nil {
				return err
			}
			a, err := bootstrap(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			form, err := readForm(args[0])
			if err != nil {
				return err
			}
			if !noStamp {
				stampRevision(&form, args[0], gitinfo.New(), a.logger)
			}

			doc, err := a.svc.Export.Export(form, docFormat)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			dest := filepath.Join(outDir, doc.Filename)
			if err := os.WriteFile(dest, doc.Data, 0o644); err != nil {
				return fmt.Errorf("writing document: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "Document format (pdf, docx)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	cmd.Flags().BoolVar(&noStamp, "no-stamp", false, "Do not stamp the git revision on the document")

	return cmd
}

// revisionSource is the part of gitinfo the export stamp needs.
type revisionSource interface {
	IsGitRepo(path string) bool
	ShortHash(path string) string
}

// stampRevision fills an empty revisionNumber with the short commit of the
// repository holding path. Anything else is left untouched.
func stampRevision(form *domain.FormSnapshot, path string, git revisionSource, logger *zap.Logger) {
	if strings.TrimSpace(form.RevisionNumber) != "" || !git.IsGitRepo(path) {
		return
	}
	if hash := git.ShortHash(path); hash != "" {
		form.RevisionNumber = "git " + hash
		logger.Debug("revision stamped", zap.String("commit", hash))
	}
}
