/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ssargent/membuf/pkg/membuf"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <file> <key>",
	Short: "Decode one field of a buffer file",
	Long: `Decode a single field of a buffer file by key, using the type
recorded in its descriptor. Byte vectors are written raw to stdout; other
types are printed as text.

Example:
  membuf get article.membuf 0`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key64, err := strconv.ParseInt(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid key %q: %w", args[1], err)
		}
		key := int32(key64)

		data, err := os.ReadFile(filepath.Clean(args[0]))
		if err != nil {
			return err
		}
		r, err := membuf.NewReader(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		tag, ok := r.TagOf(key)
		if !ok {
			return fmt.Errorf("no field %d in %s", key, args[0])
		}

		switch tag {
		case membuf.TypeText:
			s, err := r.LoadString(key)
			if err != nil {
				return err
			}
			cmd.Println(s)
		case membuf.TypeInt32:
			v, err := r.LoadInt32(key)
			if err != nil {
				return err
			}
			cmd.Println(v)
		case membuf.TypeByteVector:
			b, err := r.LoadBytes(key)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(b); err != nil {
				return err
			}
		case membuf.TypeUint64Vector:
			words, err := r.LoadUint64s(key)
			if err != nil {
				return err
			}
			for _, w := range words {
				cmd.Println(w)
			}
		case membuf.TypeNested:
			sub, err := r.LoadReader(key)
			if err != nil {
				return err
			}
			cmd.Printf("nested buffer: %d fields, %d payload bytes\n", sub.Len(), sub.PayloadLen())
		default:
			b, err := r.LoadRaw(key, tag)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(b); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
