package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/taper/internal/store"
)

var (
	exportFormat string
	exportOutput string
	importMerge  bool
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the log as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", store.FormatJSON, "output format (json or yaml)")
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	log, err := st.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load log: %w", err)
	}
	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				logErrf("failed to close output: %v\n", cerr)
			}
		}()
		w = f
	}
	if err := store.Encode(w, log, exportFormat); err != nil {
		return err
	}
	slog.Debug("log exported",
		"module", "cli",
		"operation", "export",
		"format", exportFormat,
		"entries", len(log),
	)
	return nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON log (replaces the current log unless --merge)",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().BoolVar(&importMerge, "merge", false, "merge into the existing log; imported days win")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	imported, err := store.DecodeJSON(f)
	if err != nil {
		return err
	}
	for date, entry := range imported {
		if err := entry.Validate(false); err != nil {
			return fmt.Errorf("entry %s: %w", date, err)
		}
	}

	st, err := s.openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	log := imported
	if importMerge {
		log, err = st.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load log: %w", err)
		}
		for date, entry := range imported {
			log[date] = entry
		}
	}
	if err := st.Save(cmd.Context(), log); err != nil {
		return fmt.Errorf("failed to save log: %w", err)
	}
	logErrf("Imported %d entries into %s\n", len(imported), s.dataPath)
	return nil
}
