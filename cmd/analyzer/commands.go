package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"analysis-backend/internal/panel"
	"analysis-backend/internal/remote"
	"analysis-backend/internal/resultview"
)

func newClient(v *viper.Viper) *remote.Client {
	return remote.New(v.GetString(keyAPIURL), v.GetString(keyUserID), v.GetString(keyGuestID))
}

func newFilesCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List files attached to the record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			recordID, err := requireRecordID(v)
			if err != nil {
				return err
			}
			opts, err := newClient(v).ListRelatedFiles(cmd.Context(), recordID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(opts) == 0 {
				fmt.Fprintln(out, "No files attached to this record.")
				return nil
			}
			tbl := table.NewWriter()
			tbl.SetOutputMirror(out)
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"File ID", "Name"})
			for _, o := range opts {
				tbl.AppendRow(table.Row{o.Value, o.Label})
			}
			tbl.Render()
			return nil
		},
	}
}

type analyzeFlags struct {
	fileID        string
	createRecords bool
	row           int
	copyTo        string
	flow          bool
	raw           bool
}

func newAnalyzeCommand(v *viper.Viper) *cobra.Command {
	var f analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Upload or pick a file and analyze it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if (path == "") == (f.fileID == "") {
				return fmt.Errorf("give either a file path or --file-id")
			}
			recordID, err := requireRecordID(v)
			if err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), v, recordID, path, f, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.fileID, "file-id", "", "analyze an already attached file")
	flags.BoolVar(&f.createRecords, "create-records", false, "create Energy Use records from the result")
	flags.IntVar(&f.row, "row", 0, "show the details of row N of a tabular result")
	flags.StringVar(&f.copyTo, "copy", "", "write the raw result to a file (- for stdout)")
	flags.BoolVar(&f.flow, "flow", false, "print the workflow URL for the result")
	flags.BoolVar(&f.raw, "raw", false, "print the raw result instead of a table")
	return cmd
}

func runAnalyze(ctx context.Context, v *viper.Viper, recordID, path string, f analyzeFlags, out io.Writer) error {
	client := newClient(v)
	p := panel.New(client, toastPrinter{w: out}, panel.Options{
		RecordID:    recordID,
		FlowAPIName: v.GetString(keyFlowAPIName),
	})
	defer p.Close()

	p.Load(ctx)

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		uploaded, err := client.Upload(ctx, recordID, filepath.Base(path), file)
		file.Close()
		if err != nil {
			return err
		}
		p.FileUploaded([]panel.UploadedFile{uploaded})
	} else {
		p.SelectFile(f.fileID)
	}

	if err := p.Analyze(ctx); err != nil {
		return err
	}

	snap := p.Snapshot()
	if f.raw {
		fmt.Fprintln(out, snap.RawResult)
	} else {
		renderResult(out, p.Formatted(), snap.RawResult)
	}

	if f.row > 0 {
		if !p.IsArrayResult() {
			return fmt.Errorf("--row needs a tabular result")
		}
		if _, err := p.SelectRow(fmt.Sprintf("item-%d", f.row-1)); err != nil {
			return err
		}
		renderDetail(out, p.Detail())
		p.CloseDetail()
	}

	if f.copyTo != "" {
		if err := p.CopyResult(fileClipboard{path: f.copyTo, stdout: out}); err != nil {
			return err
		}
		printActionToast(out, p)
	}

	if f.createRecords {
		if _, err := p.CreateRecords(ctx); err != nil {
			return err
		}
		printActionToast(out, p)
	}

	if f.flow {
		if v.GetString(keyFlowAPIName) == "" {
			useServerFlow(ctx, client, p)
		}
		if err := p.StartFlow(urlPrinter{baseURL: snap.OrgBaseURL, w: out}); err != nil {
			return err
		}
	}
	return nil
}

// useServerFlow adopts the org's configured workflow when the CLI was not
// given one. Failures keep the built-in default.
func useServerFlow(ctx context.Context, client *remote.Client, p *panel.Panel) {
	settings, err := client.GetOrgSettings(ctx)
	if err != nil || settings.FlowAPIName == "" {
		return
	}
	p.SetFlowAPIName(settings.FlowAPIName)
}

func printActionToast(out io.Writer, p *panel.Panel) {
	if snap := p.Snapshot(); snap.ActionToastVisible {
		color.New(color.FgGreen).Fprintln(out, snap.ActionToastMessage)
	}
}

func newFormatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "format",
		Short: "Format an analysis result read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			raw := strings.TrimSpace(string(data))
			if raw == "" {
				return fmt.Errorf("no input on stdin")
			}
			renderResult(cmd.OutOrStdout(), resultview.Format(raw), raw)
			return nil
		},
	}
}

func writeFile(path, text string) error {
	return os.WriteFile(path, []byte(text), 0o644)
}
