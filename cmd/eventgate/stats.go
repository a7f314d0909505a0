package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	v1 "github.com/seology-ai/eventgate/internal/api/v1"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	statsSource string
	statsSince  string
	statsOutput string
)

// statsReport is the printable form of v1.Stats.
type statsReport struct {
	Source        string           `json:"source" yaml:"source"`
	Since         string           `json:"since,omitempty" yaml:"since,omitempty"`
	Total         int64            `json:"total" yaml:"total"`
	Duplicates    int64            `json:"duplicates" yaml:"duplicates"`
	Failed        int64            `json:"failed" yaml:"failed"`
	DuplicateRate string           `json:"duplicate_rate" yaml:"duplicate_rate"`
	ByTopic       map[string]int64 `json:"by_topic" yaml:"by_topic"`
}

func newStatsReport(s *v1.Stats) statsReport {
	r := statsReport{
		Source:        s.Source,
		Total:         s.Total,
		Duplicates:    s.Duplicates,
		Failed:        s.Failed,
		DuplicateRate: s.DuplicateRate.StringFixed(4),
		ByTopic:       s.ByTopic,
	}
	if s.Since != nil {
		r.Since = s.Since.UTC().Format(time.RFC3339)
	}
	return r
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print ledger statistics for one source",
	RunE: func(cmd *cobra.Command, args []string) error {
		var since time.Time
		if statsSince != "" {
			parsed, err := time.Parse(time.RFC3339, statsSince)
			if err != nil {
				return fmt.Errorf("invalid --since %q (must be RFC 3339): %w", statsSince, err)
			}
			since = parsed
		}

		cfg, err := loadConfig(cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, false, false)
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.gate.GetStats(ctx, statsSource, since)
		if err != nil {
			return err
		}

		return writeStats(cmd.OutOrStdout(), newStatsReport(stats), statsOutput)
	},
}

func writeStats(w io.Writer, r statsReport, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		return enc.Close()
	case "table":
		fmt.Fprintf(w, "Ledger Stats: %s\n", r.Source)
		if r.Since != "" {
			fmt.Fprintf(w, "  Since:          %s\n", r.Since)
		}
		fmt.Fprintf(w, "  Total:          %d\n", r.Total)
		fmt.Fprintf(w, "  Duplicates:     %d\n", r.Duplicates)
		fmt.Fprintf(w, "  Failed:         %d\n", r.Failed)
		fmt.Fprintf(w, "  Duplicate Rate: %s\n", r.DuplicateRate)

		topics := make([]string, 0, len(r.ByTopic))
		for topic := range r.ByTopic {
			topics = append(topics, topic)
		}
		sort.Strings(topics)
		for _, topic := range topics {
			fmt.Fprintf(w, "    %-24s %d\n", topic, r.ByTopic[topic])
		}
	default:
		return fmt.Errorf("unsupported --output %q (must be table, json or yaml)", format)
	}
	return nil
}

func init() {
	statsCmd.Flags().StringVar(&statsSource, "source", "", "source to report on, e.g. a shop domain")
	statsCmd.Flags().StringVar(&statsSince, "since", "", "only count events first seen at or after this RFC 3339 time")
	statsCmd.Flags().StringVarP(&statsOutput, "output", "o", "table", "output format: table, json or yaml")
	_ = statsCmd.MarkFlagRequired("source")
}
