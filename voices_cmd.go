package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/audiblez/audiblez/internal/tts"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the available narration voices",
	Long: paragraph(fmt.Sprintf(
		"List every Kokoro voice, grouped by language. Pass one to %s, e.g. %s.",
		keyword("--voice"), keyword("audiblez -v bm_george book.epub"),
	)),
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		codes := make([]string, 0, len(tts.Catalog))
		for code := range tts.Catalog {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		for _, code := range codes {
			fmt.Printf("%s %s\n", tts.Flags[code], keyword(tts.LangName(code)))
			for _, voice := range tts.Catalog[code] {
				marker := "  "
				if voice == tts.DefaultVoice {
					marker = subtle("* ")
				}
				fmt.Printf("  %s%s\n", marker, voice)
			}
			fmt.Println()
		}
		fmt.Println(subtle("* default voice"))
	},
}
