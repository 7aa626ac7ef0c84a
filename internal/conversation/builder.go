// Package conversation drives a model through the describe turn and the
// optional follow-up turn for still images and sampled video frames.
package conversation

import (
	"context"
	"fmt"
	"image"

	"github.com/mengfanShi/MiniCPM-V/internal/imagecodec"
	"github.com/mengfanShi/MiniCPM-V/internal/model"
	"github.com/mengfanShi/MiniCPM-V/internal/shared"
)

const (
	DefaultImagePrompt       = "请详细描述一下图片中的内容"
	DefaultVideoSystemPrompt = "Answer in detail"
	DefaultVideoPrompt       = "这些图片是从同一个视频中抽取出来的，请依据这些图片详细描述一下视频的内容."

	// FrameSize is the edge length every video frame is resized to.
	FrameSize = 256
)

type Prompts struct {
	Image       string
	VideoSystem string
	Video       string
}

func DefaultPrompts() Prompts {
	return Prompts{
		Image:       DefaultImagePrompt,
		VideoSystem: DefaultVideoSystemPrompt,
		Video:       DefaultVideoPrompt,
	}
}

type Builder struct {
	prompts Prompts
}

// NewBuilder returns a Builder; empty prompt fields fall back to the defaults.
func NewBuilder(p Prompts) *Builder {
	d := DefaultPrompts()
	if p.Image == "" {
		p.Image = d.Image
	}
	if p.VideoSystem == "" {
		p.VideoSystem = d.VideoSystem
	}
	if p.Video == "" {
		p.Video = d.Video
	}
	return &Builder{prompts: p}
}

// Prompts returns the prompts after defaults are applied.
func (b *Builder) Prompts() Prompts {
	return b.prompts
}

// DescribeImage asks m to describe the base64 image, then answers followUp
// with the description as prior context when followUp is non-nil.
func (b *Builder) DescribeImage(ctx context.Context, m model.Model, imageB64 string, followUp *string) ([]string, error) {
	msgs := []model.Message{model.UserText(b.prompts.Image)}

	describe, err := b.chatImage(ctx, m, imageB64, msgs)
	if err != nil {
		return nil, err
	}
	if followUp == nil {
		return []string{describe}, nil
	}

	msgs = append(msgs, model.AssistantText(describe), model.UserText(*followUp))
	answer, err := b.chatImage(ctx, m, imageB64, msgs)
	if err != nil {
		return nil, err
	}
	return []string{describe, answer}, nil
}

func (b *Builder) chatImage(ctx context.Context, m model.Model, imageB64 string, msgs []model.Message) (string, error) {
	question, err := model.EncodeConversation(msgs)
	if err != nil {
		return "", err
	}
	answer, err := m.Chat(ctx, model.ImageChat{Image: imageB64, Question: question})
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInference, err)
	}
	return answer, nil
}

// DescribeVideo asks m to describe the video the frames were sampled from.
// Every frame is resized to FrameSize x FrameSize first.
func (b *Builder) DescribeVideo(ctx context.Context, m model.Model, frames []image.Image, followUp *string) ([]string, error) {
	parts := make([]model.Content, 0, len(frames)+2)
	parts = append(parts, model.Text(b.prompts.VideoSystem))
	for _, f := range frames {
		parts = append(parts, model.Image(imagecodec.Resize(f, FrameSize, FrameSize)))
	}
	parts = append(parts, model.Text(b.prompts.Video))

	msgs := []model.Message{{Role: model.RoleUser, Content: model.List(parts...)}}

	describe, err := m.ChatMessages(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInference, err)
	}
	if followUp == nil {
		return []string{describe}, nil
	}

	msgs = append(msgs, model.AssistantText(describe), model.UserText(*followUp))
	answer, err := m.ChatMessages(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInference, err)
	}
	return []string{describe, answer}, nil
}
