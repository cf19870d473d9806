// Package recorder 把房间事件异步写进游戏日志。
//
// 写入走一个有界队列，由单个 worker 顺序消费，所以同一房间的日志顺序与发布顺序一致。
// 队列满时直接丢弃并打 Warn，不阻塞游戏动作。
package recorder

import (
	"context"
	"encoding/json"
	"time"

	"startup-tycoon/dto"
	"startup-tycoon/repository"

	"go.uber.org/zap"
)

const writeTimeout = 3 * time.Second

type Entry struct {
	At   time.Time   `json:"at"`
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type job struct {
	roomID  string
	payload []byte
	forget  bool
}

type Recorder struct {
	log    repository.GameLog
	queue  chan job
	logger *zap.Logger
	now    func() time.Time
}

func New(log repository.GameLog, buffer int, logger *zap.Logger) *Recorder {
	return &Recorder{
		log:    log,
		queue:  make(chan job, buffer),
		logger: logger,
		now:    time.Now,
	}
}

func (r *Recorder) Record(roomID string, evt dto.Event) {
	payload, err := json.Marshal(Entry{At: r.now(), Type: evt.Type, Data: evt.Data})
	if err != nil {
		r.logger.Error("事件序列化失败", zap.String("room_id", roomID), zap.String("event", evt.Type), zap.Error(err))
		return
	}
	r.enqueue(job{roomID: roomID, payload: payload}, evt.Type)
}

// Forget 删除房间日志，排在该房间已入队的事件之后执行
func (r *Recorder) Forget(roomID string) {
	r.enqueue(job{roomID: roomID, forget: true}, "forget")
}

func (r *Recorder) enqueue(j job, event string) {
	select {
	case r.queue <- j:
	default:
		r.logger.Warn("日志队列已满，丢弃",
			zap.String("room_id", j.roomID),
			zap.String("event", event),
			zap.String("reason", "queue_full"))
	}
}

func (r *Recorder) List(ctx context.Context, roomID string) ([]json.RawMessage, error) {
	return r.log.List(ctx, roomID)
}

// Run 消费队列直到 ctx 取消，退出前把已入队的写完
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case j := <-r.queue:
			r.handle(ctx, j)
		case <-ctx.Done():
			for {
				select {
				case j := <-r.queue:
					r.handle(ctx, j)
				default:
					return
				}
			}
		}
	}
}

// handle 单条写入有自己的超时，不跟随 Run 的取消
func (r *Recorder) handle(ctx context.Context, j job) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	var err error
	if j.forget {
		err = r.log.Delete(ctx, j.roomID)
	} else {
		err = r.log.Append(ctx, j.roomID, j.payload)
	}
	if err != nil {
		r.logger.Error("写游戏日志失败", zap.String("room_id", j.roomID), zap.Error(err))
	}
}
