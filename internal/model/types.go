// Package model owns the loaded vision-language model and the message types
// used to talk to it.
package model

import (
	"context"
	"image"
)

// Model is a loaded vision-language model. Implementations must allow
// concurrent Chat and ChatMessages calls; Close is only called once no caller
// holds a lease on the model.
type Model interface {
	// Chat takes a flat base64 image and a JSON encoded conversation.
	Chat(ctx context.Context, req ImageChat) (string, error)
	// ChatMessages takes a structured conversation with inline images.
	ChatMessages(ctx context.Context, msgs []Message) (string, error)
	Close() error
}

// Loader constructs a Model from its storage path.
type Loader interface {
	Load(ctx context.Context, path string) (Model, error)
}

type LoaderFunc func(ctx context.Context, path string) (Model, error)

func (f LoaderFunc) Load(ctx context.Context, path string) (Model, error) {
	return f(ctx, path)
}

type ImageChat struct {
	Image    string
	Question string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ContentKind int

const (
	ContentText ContentKind = iota
	ContentImage
	ContentList
)

func (k ContentKind) String() string {
	switch k {
	case ContentText:
		return "text"
	case ContentImage:
		return "image"
	case ContentList:
		return "list"
	default:
		return "unknown"
	}
}

// Content is a tagged union: exactly one of Text, Image or Parts is meaningful,
// selected by Kind.
type Content struct {
	Kind  ContentKind
	Text  string
	Image image.Image
	Parts []Content
}

func Text(s string) Content {
	return Content{Kind: ContentText, Text: s}
}

func Image(img image.Image) Content {
	return Content{Kind: ContentImage, Image: img}
}

func List(parts ...Content) Content {
	return Content{Kind: ContentList, Parts: parts}
}

type Message struct {
	Role    Role
	Content Content
}

func UserText(s string) Message {
	return Message{Role: RoleUser, Content: Text(s)}
}

func AssistantText(s string) Message {
	return Message{Role: RoleAssistant, Content: Text(s)}
}
