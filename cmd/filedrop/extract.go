package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"filedrop/internal/extract"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>",
		Short: "Scan a text file for phone numbers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			numbers := extract.PhoneNumbers(string(body))
			if len(numbers) == 0 {
				fmt.Println("No phone numbers found.")
				return nil
			}
			for _, n := range numbers {
				fmt.Println(n)
			}
			return nil
		},
	}
}
