package dc

import (
	"context"
	"errors"
	"sync"
	"time"

	"Outbreak/internal/history/app/port"
	"Outbreak/internal/history/entity"
	"Outbreak/modules/kit/errx"
	"Outbreak/modules/kit/logx"

	"go.uber.org/zap"
)

var ErrRecorderClosed = errors.New("match recorder is closed")

// Recorder 异步写对局记录：调用方只入队，后台协程写库，失败重排并退避。
type Recorder struct {
	repo    port.MatchRepository
	backoff time.Duration
	log     logx.Logger

	mu      sync.Mutex
	pending []*entity.MatchRecord
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewRecorder(repo port.MatchRepository, l logx.Logger) *Recorder {
	if l == nil {
		l = logx.Nop()
	}
	d := &Recorder{
		repo:    repo,
		backoff: 200 * time.Millisecond,
		log:     l,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

// Record 入队一条记录，不阻塞对局。
func (d *Recorder) Record(r entity.MatchRecord) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrRecorderClosed
	}
	d.pending = append(d.pending, &r)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return nil
}

// Recent 先返回还没落库的记录，再补齐库里的。
func (d *Recorder) Recent(ctx context.Context, limit int) ([]entity.MatchRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	d.mu.Lock()
	out := make([]entity.MatchRecord, 0, limit)
	for i := len(d.pending) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *d.pending[i])
	}
	d.mu.Unlock()

	if len(out) == limit {
		return out, nil
	}
	stored, err := d.repo.Recent(ctx, limit-len(out))
	if err != nil {
		return out, err
	}
	return append(out, stored...), nil
}

func (d *Recorder) Get(ctx context.Context, id entity.MatchID) (*entity.MatchRecord, error) {
	d.mu.Lock()
	for _, r := range d.pending {
		if r.ID == id {
			rec := *r
			d.mu.Unlock()
			return &rec, nil
		}
	}
	d.mu.Unlock()
	return d.repo.Get(ctx, id)
}

// Pending 返回尚未写库的记录数。
func (d *Recorder) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *Recorder) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Recorder) popPending() *entity.MatchRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pending) == 0 {
		return nil
	}
	r := d.pending[0]
	d.pending = d.pending[1:]
	return r
}

// requeueOnError 把失败的记录放回队头，保持写入顺序。
func (d *Recorder) requeueOnError(r *entity.MatchRecord) {
	d.mu.Lock()
	d.pending = append([]*entity.MatchRecord{r}, d.pending...)
	d.mu.Unlock()
}

func (d *Recorder) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending(false)
		case <-d.stop:
			d.consumePending(true)
			return
		}
	}
}

// consumePending 写空队列。关闭时每条只再试一次，失败的丢弃并记日志。
func (d *Recorder) consumePending(closing bool) {
	for {
		r := d.popPending()
		if r == nil {
			return
		}
		if err := d.repo.Save(context.TODO(), r); err != nil {
			logx.ReportErrorWithLoggerContext(context.Background(), d.log, "history_save",
				errx.ErrUnavailable.WithCause(err), zap.Int64("match_id", r.ID))
			if closing {
				continue
			}
			d.requeueOnError(r)
			select {
			case <-time.After(d.backoff):
			case <-d.stop:
				// 关闭时交给外层循环按 closing 语义收尾
				return
			}
			continue
		}
	}
}
