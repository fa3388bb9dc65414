package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bytepair/tokenizer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var modelPath string

	rootCmd := &cobra.Command{
		Use:   "bpe",
		Short: "Byte-level BPE tokenizer",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SilenceUsage = true
		},
	}
	rootCmd.PersistentFlags().StringVarP(&modelPath, "model", "m", "merges.json", "model file path")

	var vocabSize int
	var description string
	trainCmd := &cobra.Command{
		Use:   "train corpus.txt [corpus2.txt ...]",
		Short: "Train a merge table on one or more corpus files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			docs, err := tokenizer.ReadCorpusFiles(args)
			if err != nil {
				return err
			}
			table, stats, err := tokenizer.NewTrainer().Train(ctx, docs, vocabSize)
			if err != nil {
				return err
			}
			if stats.Exhausted {
				fmt.Printf("corpus exhausted after %d merges (target was %d)\n",
					stats.Rounds, vocabSize-256)
			}
			if err := table.Save(modelPath, description); err != nil {
				return err
			}
			fmt.Printf("vocabulary size %d (%d merges), %d bytes -> %d tokens\n",
				table.VocabSize(), table.NumMerges(), stats.Bytes, stats.Tokens)
			return nil
		},
	}
	trainCmd.Flags().IntVar(&vocabSize, "vocab-size", 5000, "target vocabulary size (256 base tokens + merges)")
	trainCmd.Flags().StringVar(&description, "description", "", "provenance note stored in the model file")

	encodeCmd := &cobra.Command{
		Use:   "encode [text]",
		Short: "Encode text to token IDs (reads stdin when no argument)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := tokenizer.LoadModel(modelPath)
			if err != nil {
				return err
			}
			text, err := readInput(args)
			if err != nil {
				return err
			}
			res := tok.EncodeStats(text)
			fmt.Println(joinInts(res.Tokens))
			fmt.Fprintf(os.Stderr, "%d tokens, %d bytes, %.2fX compression\n",
				res.TokenCount, res.OriginalBytes, res.CompressionRatio)
			return nil
		},
	}

	decodeCmd := &cobra.Command{
		Use:   "decode \"256, 257, 258\"",
		Short: "Decode comma separated token IDs back to text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := tokenizer.LoadModel(modelPath)
			if err != nil {
				return err
			}
			text, err := tok.DecodeTokenList(args[0])
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show model details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := tokenizer.Load(modelPath)
			if err != nil {
				return err
			}
			fmt.Printf("model:           %s\n", modelPath)
			fmt.Printf("vocabulary size: %d (target %d)\n", table.VocabSize(), table.TargetVocabSize())
			fmt.Printf("merges:          %d\n", table.NumMerges())
			if table.Description() != "" {
				fmt.Printf("description:     %s\n", table.Description())
			}
			return nil
		},
	}

	rootCmd.AddCommand(trainCmd, encodeCmd, decodeCmd, infoCmd)
	return rootCmd
}

func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
