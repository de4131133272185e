package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sadopc/apitester/internal/config"
	"github.com/sadopc/apitester/internal/core/request"
	"github.com/sadopc/apitester/internal/export"
)

func newHistoryCmd(cfg func() config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, inspect, replay or clear recent requests",
	}
	cmd.AddCommand(newHistoryListCmd(cfg))
	cmd.AddCommand(newHistoryShowCmd(cfg))
	cmd.AddCommand(newHistoryReplayCmd(cfg))
	cmd.AddCommand(newHistoryClearCmd(cfg))
	return cmd
}

func newHistoryListCmd(cfg func() config.Config) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent requests, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cfg())
			if err != nil {
				return err
			}
			defer sess.Close()

			items := sess.store.SearchHistory(filter)
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No history")
				return nil
			}

			// Numbers refer to positions in the full history so they can be
			// passed to show and replay even when filtered.
			all := sess.store.History()
			bold := color.New(color.Bold).SprintFunc()
			muted := color.New(color.FgHiBlack).SprintFunc()
			for _, item := range items {
				fmt.Fprintf(out, "%2d  %s %s  %s\n",
					position(all, item),
					bold(fmt.Sprintf("%-6s", item.Method)),
					item.URL,
					muted(humanize.Time(item.Timestamp)))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "fuzzy filter on method and URL")
	return cmd
}

func newHistoryShowCmd(cfg func() config.Config) *cobra.Command {
	var asCurl bool
	cmd := &cobra.Command{
		Use:   "show <n>",
		Short: "Print history entry n (1 is the most recent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cfg())
			if err != nil {
				return err
			}
			defer sess.Close()

			item, err := pick(sess.store.History(), args[0])
			if err != nil {
				return err
			}
			if asCurl {
				fmt.Fprintln(cmd.OutOrStdout(), export.AsCurl(item.ToRequest()))
				return nil
			}
			out, err := json.MarshalIndent(item, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding history item: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asCurl, "curl", false, "print the request as a curl command")
	return cmd
}

func newHistoryReplayCmd(cfg func() config.Config) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "replay <n>",
		Short: "Send history entry n again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validOutput(output); err != nil {
				return err
			}
			sess, err := openSession(cfg())
			if err != nil {
				return err
			}
			defer sess.Close()

			item, err := pick(sess.store.History(), args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			sess.store.LoadFromHistory(item)
			resp, err := sess.dispatch(ctx)
			if err != nil {
				return fmt.Errorf("replaying entry %s: %w", args[0], err)
			}
			return printResponse(cmd.OutOrStdout(), resp, output, "")
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or markup")
	return cmd
}

func newHistoryClearCmd(cfg func() config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every history entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := openSession(cfg())
			if err != nil {
				return err
			}
			defer sess.Close()

			sess.store.ClearHistory()
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	}
}

// pick returns the 1-based entry n of items.
func pick(items []request.HistoryItem, arg string) (request.HistoryItem, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return request.HistoryItem{}, fmt.Errorf("invalid history number %q", arg)
	}
	if n < 1 || n > len(items) {
		return request.HistoryItem{}, fmt.Errorf("history has %d entries; %d is out of range", len(items), n)
	}
	return items[n-1], nil
}

func position(all []request.HistoryItem, item request.HistoryItem) int {
	for i, it := range all {
		if it.Timestamp.Equal(item.Timestamp) && it.URL == item.URL && it.Method == item.Method {
			return i + 1
		}
	}
	return 0
}
