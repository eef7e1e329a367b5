package main

import (
	"flag"
	"net/url"

	"github.com/JoelOtter/termloop"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/kiryu-dev/tetris/internal/domain"
	"github.com/kiryu-dev/tetris/pkg/utils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	logPath := flag.String("log", "tetris-client.log", "path to log file")
	flag.Parse()

	logCfg := zap.NewDevelopmentConfig()
	logCfg.OutputPaths = []string{*logPath}
	logCfg.ErrorOutputPaths = []string{*logPath}
	logger, err := logCfg.Build()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/game"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		logger.Fatal("dial", zap.String("url", u.String()), zap.Error(err))
	}
	defer func() {
		_ = conn.Close()
	}()

	c := &client{conn: conn, logger: logger}
	view := newBoardView(0, 0, c.send)
	go func() {
		if err := c.receive(view); err != nil {
			logger.Warn("receive messages", zap.Error(err))
			view.SetStatus("disconnected")
		}
	}()

	game := termloop.NewGame()
	level := termloop.NewBaseLevel(termloop.Cell{})
	level.AddEntity(view)
	game.Screen().SetLevel(level)
	game.Start()
}

type client struct {
	conn   *websocket.Conn
	logger *zap.Logger
}

// send is called from the termloop event loop only, so writes never overlap.
func (c *client) send(cmd domain.Command) {
	data, err := jsoniter.Marshal(domain.Message{
		Type:    domain.CommandMessage,
		Payload: domain.CommandPayload{Command: cmd},
	})
	if err != nil {
		c.logger.Warn("marshal command", zap.Error(err))
		return
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.logger.Warn("write command", zap.String("command", string(cmd)), zap.Error(err))
	}
}

func (c *client) receive(view *boardView) error {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return errors.WithMessage(err, "read message")
		}
		var msg domain.Message
		if err := jsoniter.Unmarshal(data, &msg); err != nil {
			return errors.WithMessage(err, "unmarshal message")
		}
		switch msg.Type {
		case domain.Welcome:
			v, err := utils.DecodePayload[domain.WelcomePayload](msg.Payload)
			if err != nil {
				return errors.WithMessage(err, "decode 'WelcomePayload'")
			}
			c.logger.Info("joined session", zap.String("session", v.Session))
			view.Update(domain.Snapshot{Rows: v.Rows, Cols: v.Cols})
			view.SetStatus("press s to start")
		case domain.SnapshotMessage:
			v, err := utils.DecodePayload[domain.Snapshot](msg.Payload)
			if err != nil {
				return errors.WithMessage(err, "decode 'Snapshot'")
			}
			view.Update(v)
			view.SetStatus("")
		}
	}
}
