package actor

import (
	"context"
	"errors"
	"sync"
	"time"

	"Outbreak/internal/lobby/actors"
	"Outbreak/internal/protocol"
	"Outbreak/internal/shared/actor/messages"
	"Outbreak/internal/shared/transport"
	"Outbreak/modules/kit/logx"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 3 * time.Second

type RuntimeError struct {
	Code    transport.BizCode
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Runtime 持有大厅 actor，对外提供排队和查询接口，可被任意 goroutine 调用。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
	matches *sync.WaitGroup
}

func NewRuntime(newSession actors.SessionFactory, ids actors.IDGenerator, recorder actors.Recorder, l logx.Logger, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	wg := &sync.WaitGroup{}
	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(newSession, ids, recorder, wg, l)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
		matches: wg,
	}
}

// Join 把连接交给大厅排队，立即返回。
func (r *Runtime) Join(conn protocol.FrameConn) {
	if r == nil || r.root == nil {
		_ = conn.Close()
		return
	}
	r.root.Send(r.manager, &messages.Join{Conn: conn})
}

// Matches 返回进行中的对局快照。
func (r *Runtime) Matches(ctx context.Context) (*messages.MatchList, error) {
	res, err := r.request(r.manager, &messages.ListMatches{}, r.timeoutFromContext(ctx))
	if err != nil {
		return nil, err
	}
	list, ok := res.(*messages.MatchList)
	if !ok || list == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "unexpected actor response"}
	}
	return list, nil
}

// Shutdown 停掉大厅、取消所有对局，并等对局协程把结果交给 recorder。
func (r *Runtime) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}

	done := make(chan struct{})
	go func() {
		r.matches.Wait()
		close(done)
	}()
	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
	return err
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		return nil, &RuntimeError{
			Code:    transport.Unavailable,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

func CodeFromError(err error) transport.BizCode {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	return transport.SystemError
}
