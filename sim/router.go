package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/encodeous/tint"
	"github.com/encodeous/weft/core"
	"github.com/encodeous/weft/state"
	slogmulti "github.com/samber/slog-multi"
)

// NewLogger builds a console logger tagged with prefix, optionally mirrored to file
func NewLogger(console io.Writer, file io.Writer, level slog.Level, prefix string) *slog.Logger {
	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(console, &tint.Options{
			Level:        level,
			AddSource:    false,
			CustomPrefix: prefix,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}))
	if file != nil {
		handlers = append(handlers,
			slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}).
				WithAttrs([]slog.Attr{slog.String("node", prefix)}))
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// nodeRouter is the environment a single engine sees
type nodeRouter struct {
	net *Network
	id  state.NodeId
	log *slog.Logger
}

func (r *nodeRouter) SendToNeighbour(neigh state.NodeId, msg string) {
	r.net.send(r.id, neigh, msg)
}

func (r *nodeRouter) Log(event core.RouterEvent, desc string, args ...any) {
	level := slog.LevelDebug
	if event.IsWarning() {
		level = slog.LevelWarn
	}
	args = append(args, "t", r.net.Now)
	r.log.Log(context.Background(), level, fmt.Sprintf("%s %s", event.String(), desc), args...)
}
