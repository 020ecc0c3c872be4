package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Outbreak/internal/history"
	lobbyactor "Outbreak/internal/lobby/actor"
	lobbyinterfaces "Outbreak/internal/lobby/interfaces"
	"Outbreak/internal/match"
	"Outbreak/internal/protocol"
	"Outbreak/internal/shared/logs"
	"Outbreak/internal/shared/serverconfig"
	transporthttp "Outbreak/internal/shared/transport/http"
	"Outbreak/internal/shared/transport/tcp"
	"Outbreak/internal/shared/transport/ws"
	"Outbreak/internal/shared/utils"
	"Outbreak/modules/kit/logx"

	"go.uber.org/zap"
)

func main() {
	conf, err := serverconfig.Load(os.Getenv("OUTBREAK_CONFIG"), func(next serverconfig.Config, err error) {
		if err != nil {
			logs.Error("配置热更新失败，沿用旧配置", zap.Error(err))
			return
		}
		logs.Info("配置已更新，新开的对局生效", zap.Uint8("tick_rate", next.Game.TickRate))
	})
	if err != nil {
		panic(err)
	}
	if err := logs.Init("outbreak", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("server", conf.Server), zap.Any("game", conf.Game), zap.Any("net", conf.Net))

	baseLogger := logx.NewZapLogger(logs.Logger())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hist, err := history.Open(ctx, conf.History, baseLogger)
	if err != nil {
		logs.Fatal("open history failed", zap.Error(err))
	}

	ids, err := utils.NewSnowflake(conf.Server.NodeID)
	if err != nil {
		logs.Fatal("init id generator failed", zap.Error(err))
	}

	// 每局开局时读取最新配置快照
	newSession := func(id int64, conns [2]protocol.FrameConn) (*match.Session, error) {
		return match.New(id, match.SettingsFromConfig(serverconfig.Current()), conns, baseLogger)
	}
	lobby := lobbyactor.NewRuntime(newSession, ids, hist.Recorder, baseLogger, 3*time.Second)

	tcpServer := tcp.NewServer(conf.Server.TCPAddr, lobby.Join, baseLogger,
		tcp.WithMaxFrameSize(conf.Net.MaxFrameSize),
		tcp.WithWriteTimeout(conf.Net.WriteStallTimeout),
	)
	wsServer := ws.NewServer(lobby.Join, conf.Net.MaxFrameSize, conf.Net.WriteStallTimeout, baseLogger)

	httpServer := transporthttp.NewHttpServer(conf.Server.HTTPAddr, nil, baseLogger,
		transporthttp.WithHealth(func(ctx context.Context) (any, error) {
			list, err := lobby.Matches(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]int{"matches": len(list.Matches), "waiting": list.Waiting}, nil
		}),
	)
	lobbyinterfaces.New(lobby, hist.Recorder, conf.Admin.JWTSecret, wsServer).HttpRegister(httpServer.Group())

	serveCtx, cancelServe := context.WithCancel(ctx)
	defer cancelServe()

	errCh := make(chan error, 2)
	go func() {
		if err := tcpServer.Serve(serveCtx); err != nil {
			errCh <- fmt.Errorf("tcp server start failed: %w", err)
			return
		}
		errCh <- nil
	}()
	go func() {
		logs.Info("http server listening", zap.String("addr", conf.Server.HTTPAddr))
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("http server start failed: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		if err != nil {
			logs.Error("服务异常退出", zap.Error(err))
		}
	}

	cancelServe()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	if err := lobby.Shutdown(shutdownCtx); err != nil {
		logs.Warn("lobby shutdown timeout", zap.Error(err))
	}
	if err := hist.Close(shutdownCtx); err != nil {
		logs.Warn("history close failed", zap.Error(err))
	}
}
