package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"backlog-snapshot-api/internal/adapter/repository/gormrepo"
	"backlog-snapshot-api/internal/ingest"
	snapshotuc "backlog-snapshot-api/internal/usecase/snapshot"

	"github.com/spf13/cobra"
)

type importOptions struct {
	description string
	createdBy   string
	// paths keyed by the schema's form field, e.g. order_file
	paths map[string]*string
}

// flagName turns a form field such as order_file into order-file.
func flagName(field string) string { return strings.ReplaceAll(field, "_", "-") }

func newImportCmd() *cobra.Command {
	opts := importOptions{paths: map[string]*string{}}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create a snapshot from local CSV or XLSX files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.description, "description", "", "Snapshot description")
	cmd.Flags().StringVar(&opts.createdBy, "created-by", "", "Value stored as created_by")
	for _, s := range ingest.NewRegistry(ingest.DefaultFiscalYear).All() {
		p := new(string)
		opts.paths[s.Field] = p
		cmd.Flags().StringVar(p, flagName(s.Field), "", fmt.Sprintf("File for %s", s.Table))
	}
	return cmd
}

func runImport(cmd *cobra.Command, opts importOptions) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	schemas := ingest.NewRegistry(a.cfg.FiscalYear)
	files := snapshotuc.Files{}
	for _, s := range schemas.All() {
		path := *opts.paths[s.Field]
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read --%s: %w", flagName(s.Field), err)
		}
		files[s.Table] = data
	}

	uc := snapshotuc.NewUsecase(gormrepo.NewGormUoW(a.db, a.cfg.InsertBatchSize), schemas, a.log)
	res, err := uc.Create(ctx, snapshotuc.CreateInput{
		Description: opts.description,
		Files:       files,
		CreatedBy:   opts.createdBy,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
