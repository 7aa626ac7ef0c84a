package main

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/mengfanShi/MiniCPM-V/internal/client"
	"github.com/mengfanShi/MiniCPM-V/internal/imagecodec"
	"github.com/mengfanShi/MiniCPM-V/internal/video"
	"github.com/spf13/cobra"
)

func newImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "image FILE",
		Short: "Describe an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			img, err := imagecodec.DecodeReader(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return describe(cmd, labelImage, []image.Image{img})
		},
	}
}

func newVideoCmd() *cobra.Command {
	videoCmd := &cobra.Command{
		Use:   "video FILE",
		Short: "Describe a video from sampled frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _ := cmd.Flags().GetInt("frames")
			frames, err := video.SampleFile(args[0], n)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return describe(cmd, labelVideo, frames)
		},
	}

	videoCmd.Flags().Int("frames", video.DefaultFrames, "Number of frames to sample")
	return videoCmd
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models the service can load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := newClient(cmd).Models(cmd.Context())
			if err != nil {
				return err
			}
			for _, m := range models {
				marker := ""
				if m.Default {
					marker += " (default)"
				}
				if m.Active {
					marker += " (loaded)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", m.ID, marker)
			}
			return nil
		},
	}
}

func newClient(cmd *cobra.Command) *client.Client {
	url, _ := cmd.Flags().GetString("url")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return client.New(client.Config{URL: url, Timeout: timeout})
}

func describe(cmd *cobra.Command, label string, images []image.Image) error {
	modelID, _ := cmd.Flags().GetString("model")
	q, _ := cmd.Flags().GetString("question")

	var question *string
	if q != "" {
		question = &q
	}

	c := newClient(cmd)
	answers, err := c.UploadImages(cmd.Context(), images, question, modelID)
	if client.IsAPIError(err, "unknown_model") {
		return unknownModelError(cmd, c, modelID, err)
	}
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatAnswers(label, q, answers))
	return nil
}

// unknownModelError names the models the service offers, falling back to the
// original error when the list cannot be fetched.
func unknownModelError(cmd *cobra.Command, c *client.Client, modelID string, err error) error {
	models, lerr := c.Models(cmd.Context())
	if lerr != nil || len(models) == 0 {
		return err
	}
	ids := make([]string, len(models))
	for i, m := range models {
		ids[i] = m.ID
	}
	return fmt.Errorf("unknown model %q, available: %s", modelID, strings.Join(ids, ", "))
}
