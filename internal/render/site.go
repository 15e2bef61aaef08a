package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/adamavenir/slackdump-render/internal/types"
)

// IndexFile is the name of the channel list page.
const IndexFile = "index.html"

// SiteOptions configures a Site.
type SiteOptions struct {
	// Workers bounds how many channels render at once.
	Workers int
	NoIndex bool
	Title   string
	Logger  logrus.FieldLogger
}

// Site writes one page per channel into an output directory.
type Site struct {
	OutputDir string
	opts      SiteOptions
	renderer  *Renderer
}

// Result lists what a render pass produced.
type Result struct {
	Written []string
	Failed  []string
}

// NewSite prepares a site writer for the given user directory.
func NewSite(outputDir string, users types.UserDirectory, opts SiteOptions) (*Site, error) {
	renderer, err := NewRenderer(users)
	if err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Title == "" {
		opts.Title = "Slack archive"
	}
	if opts.Logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		opts.Logger = discard
	}
	return &Site{OutputDir: outputDir, opts: opts, renderer: renderer}, nil
}

// ChannelPath returns the output file for a channel. The slug is used as is.
func (s *Site) ChannelPath(channel *types.Channel) string {
	return filepath.Join(s.OutputDir, channel.Slug+".html")
}

// Render writes every channel page and the index. A failing channel does
// not stop the others; all failures are returned together.
func (s *Site) Render(ctx context.Context, channels []*types.Channel) (Result, error) {
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}

	s.opts.Logger.WithFields(logrus.Fields{"workers": s.opts.Workers}).
		Infof("rendering %d channels", len(channels))

	errs := make([]error, len(channels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, channel := range channels {
		i, channel := i, channel
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = fmt.Errorf("channel %s: %w", channel.Slug, err)
				return nil
			}
			if err := s.writeChannel(channel, channels); err != nil {
				s.opts.Logger.WithFields(logrus.Fields{"channel": channel.ID, "slug": channel.Slug}).
					Errorf("render failed: %v", err)
				errs[i] = fmt.Errorf("channel %s: %w", channel.Slug, err)
				return nil
			}
			s.opts.Logger.WithFields(logrus.Fields{"channel": channel.ID, "slug": channel.Slug}).
				Debugf("rendered %d messages", len(channel.Messages))
			return nil
		})
	}
	_ = g.Wait()

	var result Result
	var merr *multierror.Error
	for i, channel := range channels {
		if errs[i] != nil {
			merr = multierror.Append(merr, errs[i])
			result.Failed = append(result.Failed, channel.Slug)
			continue
		}
		result.Written = append(result.Written, s.ChannelPath(channel))
	}

	if !s.opts.NoIndex {
		path := filepath.Join(s.OutputDir, IndexFile)
		if err := s.writeIndex(path, channels); err != nil {
			s.opts.Logger.Errorf("index failed: %v", err)
			merr = multierror.Append(merr, fmt.Errorf("index: %w", err))
		} else {
			result.Written = append(result.Written, path)
		}
	}

	s.opts.Logger.WithFields(logrus.Fields{
		"written": len(result.Written),
		"failed":  len(result.Failed),
	}).Info("render complete")

	return result, merr.ErrorOrNil()
}

func (s *Site) writeChannel(channel *types.Channel, channels []*types.Channel) error {
	page := ChannelPage{
		Channel:   channel,
		Messages:  s.renderer.PrepareChannel(channel),
		Channels:  channels,
		ShowIndex: !s.opts.NoIndex,
	}
	var buf bytes.Buffer
	if err := s.renderer.WriteChannel(&buf, page); err != nil {
		return err
	}
	return os.WriteFile(s.ChannelPath(channel), buf.Bytes(), 0o644)
}

func (s *Site) writeIndex(path string, channels []*types.Channel) error {
	var buf bytes.Buffer
	if err := s.renderer.WriteIndex(&buf, NewIndexPage(s.opts.Title, channels)); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
