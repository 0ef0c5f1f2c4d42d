package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/store"
)

var csvHeader = []string{"exercise", "performed_at", "weight", "reps", "set_type", "rep_base", "rep_max", "increment"}

// setRecord is the exchange form of a set shared by the CSV and YAML formats.
type setRecord struct {
	Exercise    string  `yaml:"exercise"`
	PerformedAt string  `yaml:"performed_at"`
	Weight      float64 `yaml:"weight"`
	Reps        int     `yaml:"reps"`
	SetType     string  `yaml:"set_type"`
	RepBase     int     `yaml:"rep_base"`
	RepMax      int     `yaml:"rep_max"`
	Increment   float64 `yaml:"increment"`
}

func recordFromSet(s model.Set) setRecord {
	return setRecord{
		Exercise:    s.Exercise,
		PerformedAt: s.PerformedAt.In(time.Local).Format(store.TimeLayout),
		Weight:      s.Weight,
		Reps:        s.Reps,
		SetType:     strings.ToLower(s.Type.String()),
		RepBase:     s.Scheme.RepBase,
		RepMax:      s.Scheme.RepMax,
		Increment:   s.Scheme.Increment,
	}
}

func (r setRecord) toSet() (model.Set, error) {
	if strings.TrimSpace(r.Exercise) == "" {
		return model.Set{}, errors.New("exercise is empty")
	}
	at, err := time.ParseInLocation(store.TimeLayout, strings.TrimSpace(r.PerformedAt), time.Local)
	if err != nil {
		return model.Set{}, fmt.Errorf("invalid performed_at %q", r.PerformedAt)
	}
	setType, err := model.ParseSetType(r.SetType)
	if err != nil {
		return model.Set{}, err
	}
	scheme := model.RepScheme{RepBase: r.RepBase, RepMax: r.RepMax, Increment: r.Increment}
	if err := scheme.Validate(); err != nil {
		return model.Set{}, fmt.Errorf("invalid rep scheme: %w", err)
	}
	return model.Set{
		Exercise:    strings.TrimSpace(r.Exercise),
		PerformedAt: at,
		Weight:      r.Weight,
		Reps:        r.Reps,
		Type:        setType,
		Scheme:      scheme,
	}, nil
}

func (r setRecord) csvRow() []string {
	return []string{
		r.Exercise,
		r.PerformedAt,
		strconv.FormatFloat(r.Weight, 'f', -1, 64),
		strconv.Itoa(r.Reps),
		r.SetType,
		strconv.Itoa(r.RepBase),
		strconv.Itoa(r.RepMax),
		strconv.FormatFloat(r.Increment, 'f', -1, 64),
	}
}

func recordFromCSV(row []string) (setRecord, error) {
	if len(row) != len(csvHeader) {
		return setRecord{}, fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(row))
	}
	var (
		r   = setRecord{Exercise: row[0], PerformedAt: row[1], SetType: row[4]}
		err error
	)
	if r.Weight, err = strconv.ParseFloat(row[2], 64); err != nil {
		return setRecord{}, fmt.Errorf("invalid weight %q", row[2])
	}
	if r.Reps, err = strconv.Atoi(row[3]); err != nil {
		return setRecord{}, fmt.Errorf("invalid reps %q", row[3])
	}
	if r.RepBase, err = strconv.Atoi(row[5]); err != nil {
		return setRecord{}, fmt.Errorf("invalid rep_base %q", row[5])
	}
	if r.RepMax, err = strconv.Atoi(row[6]); err != nil {
		return setRecord{}, fmt.Errorf("invalid rep_max %q", row[6])
	}
	if r.Increment, err = strconv.ParseFloat(row[7], 64); err != nil {
		return setRecord{}, fmt.Errorf("invalid increment %q", row[7])
	}
	return r, nil
}

func writeCSV(w io.Writer, sets []model.Set) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range sets {
		if err := cw.Write(recordFromSet(s).csvRow()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readCSV(r io.Reader) ([]model.Set, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), csvHeader[0]) {
		rows = rows[1:]
	}
	sets := make([]model.Set, 0, len(rows))
	for i, row := range rows {
		rec, err := recordFromCSV(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		s, err := rec.toSet()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		sets = append(sets, s)
	}
	return sets, nil
}

func writeYAML(w io.Writer, sets []model.Set) error {
	records := make([]setRecord, len(sets))
	for i, s := range sets {
		records[i] = recordFromSet(s)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}

func readYAML(r io.Reader) ([]model.Set, error) {
	var records []setRecord
	if err := yaml.NewDecoder(r).Decode(&records); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read yaml: %w", err)
	}
	sets := make([]model.Set, 0, len(records))
	for i, rec := range records {
		s, err := rec.toSet()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		sets = append(sets, s)
	}
	return sets, nil
}

var (
	exportFormat string
	exportOut    string
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every set as CSV or YAML",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or yaml")
	cmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	var write func(io.Writer, []model.Set) error
	switch strings.ToLower(exportFormat) {
	case "csv":
		write = writeCSV
	case "yaml", "yml":
		write = writeYAML
	default:
		return fmt.Errorf("unknown --format %q (use csv or yaml)", exportFormat)
	}
	return withStore(func(st *store.Store) (err error) {
		sets, err := st.ListAllSets(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list sets: %w", err)
		}
		if exportOut == "" {
			return write(cmd.OutOrStdout(), sets)
		}
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOut, err)
		}
		defer func() {
			err = multierr.Append(err, f.Close())
		}()
		if err := write(f, sets); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}
		logrus.WithFields(logrus.Fields{"file": exportOut, "sets": len(sets)}).Info("exported sets")
		return nil
	})
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import sets from a CSV (or .yaml) export",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of a read-only file.
			_ = cerr
		}
	}()

	read := readCSV
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		read = readYAML
	}
	sets, err := read(f)
	if err != nil {
		return err
	}
	return withStore(func(st *store.Store) error {
		n, err := st.ImportSets(cmd.Context(), sets)
		if err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}
		logrus.WithFields(logrus.Fields{"file": path, "sets": n}).Info("imported sets")
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sets\n", n)
		return err
	})
}
