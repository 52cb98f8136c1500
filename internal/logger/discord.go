package logger

import (
	"context"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const (
	// DiscordTextLimit keeps a code-fenced chunk below discord's 2000 character message cap.
	DiscordTextLimit = 1993

	discordFieldLimit = 1024
	footerTimeFormat  = "2006-01-02 15:04:05.000000"

	colorRed    = 200 << 16
	colorYellow = 255<<16 | 255<<8
	colorGreen  = 225 << 8
)

// DiscordSink posts records to a discord channel webhook.
type DiscordSink struct {
	session   *discordgo.Session
	webhookID string
	token     string
	appName   string
}

// NewDiscordSink creates a sink for the webhook configured in cfg.
func NewDiscordSink(cfg Discord, appName string) (*DiscordSink, error) {
	id, token, err := ParseWebhookURL(cfg.WebhookURL)
	if err != nil {
		return nil, err
	}

	// webhooks authenticate through their token, the session needs none
	s, err := discordgo.New("")
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if cfg.Timeout > 0 {
		s.Client.Timeout = cfg.Timeout
	}

	return &DiscordSink{
		session:   s,
		webhookID: id,
		token:     token,
		appName:   appName,
	}, nil
}

// Emit sends the record as an embed and, for errors, the error text and stack as code blocks.
func (d *DiscordSink) Emit(ctx context.Context, rec Record) error {
	title := d.appName
	if rec.Caller != "" {
		title = rec.Caller
	}

	value := rec.Message
	if value == "" {
		value = "-"
	}

	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: LevelColor(rec.Level),
		Fields: []*discordgo.MessageEmbedField{
			{Name: rec.Level.String(), Value: truncate(value, discordFieldLimit), Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: rec.Time.UTC().Format(footerTimeFormat)},
	}

	if _, err := d.session.WebhookExecute(d.webhookID, d.token, false,
		&discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{embed}},
		discordgo.WithContext(ctx),
	); err != nil {
		return err //nolint:wrapcheck
	}

	detail := strings.TrimSpace(strings.Join([]string{rec.Error, rec.Stack}, "\n"))
	if detail == "" {
		return nil
	}

	for _, chunk := range SplitText(detail, DiscordTextLimit) {
		if _, err := d.session.WebhookExecute(d.webhookID, d.token, false,
			&discordgo.WebhookParams{Content: "```" + chunk + "```"},
			discordgo.WithContext(ctx),
		); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

// LevelColor maps a level to the embed colour: red for warn and above, yellow for debug and trace.
func LevelColor(l zerolog.Level) int {
	switch {
	case l >= zerolog.WarnLevel && l <= zerolog.PanicLevel:
		return colorRed
	case l <= zerolog.DebugLevel:
		return colorYellow
	default:
		return colorGreen
	}
}

// SplitText cuts text into chunks of at most limit characters, preferring line boundaries.
func SplitText(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
	)

	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if cur.Len() > 0 {
				chunks = append(chunks, cur.String())
				cur.Reset()
			}

			chunks = append(chunks, line[:limit])
			line = line[limit:]
		}

		if cur.Len()+len(line) > limit {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}

		cur.WriteString(line)
	}

	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}

	return chunks
}

// ParseWebhookURL extracts id and token from https://discord.com/api/webhooks/<id>/<token>.
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", "", ErrInvalidWebhookURL
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if p == "webhooks" && i+2 < len(parts) && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}

	return "", "", ErrInvalidWebhookURL
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n-3] + "..."
}
