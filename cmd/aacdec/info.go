package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/llehouerou/go-heaac"
)

var infoOpts decodeFlags

var infoCmd = &cobra.Command{
	Use:   "info <input-file>",
	Short: "Decode a stream and print its properties",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := infoOpts.options()
		if err != nil {
			return err
		}
		in, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		st, err := decodeStream(in, opts, func([]int16, *aac.FrameInfo) error { return nil })
		if err != nil {
			return err
		}
		printInfo(cmd.OutOrStdout(), st)
		return nil
	},
}

func init() {
	infoOpts.register(infoCmd)
	rootCmd.AddCommand(infoCmd)
}

func printInfo(w io.Writer, st *streamStats) {
	row := func(key string, format string, args ...any) {
		fmt.Fprintf(w, "%s %s\n", keyStyle.Render(key), fmt.Sprintf(format, args...))
	}
	row("format", "%s", st.info.HeaderType)
	row("profile", "%s", st.profile)
	row("sample rate", "%d Hz", st.sampleRate)
	row("channels", "%d", st.channels)
	row("frames", "%d", st.frames)
	row("duration", "%.3f s", st.duration())
	row("bitrate", "%.1f kbit/s", float64(st.bitrate)/1000)
	row("sbr frames", "%d", st.sbrFrames)
	row("tns", "%t", st.tns)
	row("pns", "%t", st.pns)
	if st.dropped > 0 {
		row("dropped", "%d", st.dropped)
	}
	if st.truncated {
		row("truncated", "yes")
	}
}
