// Command aacdec decodes AAC-LC and HE-AAC streams to WAV files.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
