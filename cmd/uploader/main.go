package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-video-drop/internal/client"
	"github.com/go-video-drop/internal/domain"
	"github.com/go-video-drop/internal/tui"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "uploader",
	Short: "Upload a video through the video drop API",
	Long: `uploader sends a video straight to object storage using a presigned URL
issued by the video drop API, then asks the API to send the viewable link.

Without --file an interactive form is shown.

Examples:
  uploader --server http://localhost:3000
  uploader --file ./demo.mp4 --name Ann --email ann@example.com`,
	SilenceUsage: true,
	RunE:         runUpload,
}

func init() {
	rootCmd.Flags().String("server", envOr("VIDEO_DROP_URL", "http://localhost:3000"), "API base URL")
	rootCmd.Flags().StringP("file", "f", "", "video file to upload (non-interactive)")
	rootCmd.Flags().String("name", "", "sender name")
	rootCmd.Flags().String("email", "", "sender email")
	rootCmd.Flags().Duration("timeout", 30*time.Second, "timeout for each API call")
}

func runUpload(cmd *cobra.Command, _ []string) error {
	server, _ := cmd.Flags().GetString("server")
	path, _ := cmd.Flags().GetString("file")
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := client.New(client.Config{BaseURL: server, Timeout: timeout})
	if path == "" {
		return tui.Run(ctx, c)
	}
	return uploadFile(ctx, c, path, name, email)
}

func uploadFile(ctx context.Context, c *client.Client, path, name, email string) error {
	if err := client.ValidateSenderEmail(email); err != nil {
		return err
	}
	file, f, err := client.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := client.ValidateVideoFile(file.Name, file.ContentType); err != nil {
		return err
	}

	fmt.Printf("Uploading %s (%s)\n", file.Name, client.FormatFileSize(file.Size))
	res, err := c.Upload(ctx, client.Input{File: file, SenderName: name, SenderEmail: email}, progressPrinter(os.Stdout))
	if err != nil {
		return err
	}

	fmt.Printf("Stored as %s\n", res.Key)
	if res.ViewableURL != "" {
		fmt.Printf("View: %s\n", res.ViewableURL)
	}
	if res.Warning != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", res.Warning)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// progressPrinter prints a line on every state change and every 10% step
// within a state.
func progressPrinter(w io.Writer) client.ProgressFunc {
	var (
		printed   bool
		lastState domain.UploadState
		lastStep  int
	)
	return func(p client.Progress) {
		pct := int(p.Percent())
		if printed && p.State == lastState && pct/10 == lastStep {
			return
		}
		printed, lastState, lastStep = true, p.State, pct/10
		fmt.Fprintf(w, "  %-14s %3d%%\n", p.State, pct)
	}
}
