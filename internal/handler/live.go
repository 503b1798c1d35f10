package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/user/cinehub/internal/catalog"
	"github.com/user/cinehub/internal/controller"
	"github.com/user/cinehub/internal/debounce"
	"github.com/user/cinehub/internal/logger"
	"github.com/user/cinehub/internal/render"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 只接收同源页面的连接
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || strings.HasSuffix(origin, "://"+r.Host)
	},
}

// liveRequest 客户端每次输入发送的消息
type liveRequest struct {
	Q string `json:"q"`
}

// liveResponse 推送给客户端的搜索建议
type liveResponse struct {
	Type  string `json:"type"`
	Seq   uint64 `json:"seq"`
	Query string `json:"q"`
	HTML  string `json:"html"`
	Error string `json:"error,omitempty"`
}

type liveQuery struct {
	seq  uint64
	term string
}

// liveClient 一个实时搜索连接
type liveClient struct {
	id     string
	h      *Handler
	conn   *websocket.Conn
	send   chan liveResponse
	ctx    context.Context
	cancel context.CancelFunc
	latest atomic.Uint64
	input  *debounce.Debouncer[liveQuery]
	log    *logrus.Entry
}

// LiveSearch 实时搜索：输入防抖后查询第一页，只推送最新一次输入的结果
func (h *Handler) LiveSearch(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc := &liveClient{
		id:     uuid.New().String(),
		h:      h,
		conn:   conn,
		send:   make(chan liveResponse, 16),
		ctx:    ctx,
		cancel: cancel,
	}
	lc.log = logger.Component(h.Log, "live-search").WithField("client", lc.id)
	lc.input = debounce.New(h.liveDebounce(), lc.search)

	lc.log.Debug("connected")
	go lc.writePump()
	lc.readPump()
}

func (h *Handler) liveDebounce() time.Duration {
	if h.LiveDebounce > 0 {
		return h.LiveDebounce
	}
	return debounce.DefaultWait
}

// readPump 读取输入，每条输入递增序号并交给防抖器
func (lc *liveClient) readPump() {
	defer func() {
		lc.input.Stop()
		lc.cancel()
		lc.conn.Close()
		lc.log.Debug("disconnected")
	}()

	lc.conn.SetReadLimit(maxMessageSize)
	lc.conn.SetReadDeadline(time.Now().Add(pongWait))
	lc.conn.SetPongHandler(func(string) error { lc.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, data, err := lc.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				lc.log.WithError(err).Warn("read failed")
			}
			return
		}

		var req liveRequest
		if err := json.Unmarshal(data, &req); err != nil {
			lc.push(liveResponse{Type: "error", Error: "invalid message"})
			continue
		}

		term := strings.TrimSpace(req.Q)
		seq := lc.latest.Add(1)
		if term == "" {
			// 清空输入时立即关闭下拉，之前排队的查询作废
			lc.push(liveResponse{Type: "suggestions", Seq: seq})
			continue
		}
		lc.input.Trigger(liveQuery{seq: seq, term: term})
	}
}

// search 防抖后执行的查询，请求前后都检查序号，过期结果直接丢弃
func (lc *liveClient) search(q liveQuery) {
	if q.seq != lc.latest.Load() {
		return
	}

	ctx, cancel := context.WithTimeout(lc.ctx, lc.h.Config.FetchTimeout)
	defer cancel()

	items, err := lc.h.Catalog.Suggest(ctx, q.term, catalog.SuggestLimit)
	if q.seq != lc.latest.Load() {
		lc.log.WithField("seq", q.seq).Debug("stale suggestions dropped")
		return
	}

	resp := liveResponse{Type: "suggestions", Seq: q.seq, Query: q.term}
	if err != nil {
		resp.Type = "error"
		resp.Error = render.ErrorMessage(controller.ErrorKind(err))
		lc.push(resp)
		return
	}

	html, err := lc.h.Renderer.Suggestions(items)
	if err != nil {
		lc.log.WithError(err).Error("render suggestions failed")
		return
	}
	resp.HTML = string(html)
	lc.push(resp)
}

func (lc *liveClient) push(msg liveResponse) {
	select {
	case <-lc.ctx.Done():
	case lc.send <- msg:
	default:
		lc.log.Warn("send buffer full, message dropped")
	}
}

// writePump 唯一的写协程，负责推送消息和心跳
func (lc *liveClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		lc.conn.Close()
	}()

	for {
		select {
		case msg := <-lc.send:
			lc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := lc.conn.WriteJSON(msg); err != nil {
				lc.log.WithError(err).Warn("write failed")
				return
			}
		case <-ticker.C:
			lc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := lc.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-lc.ctx.Done():
			lc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			lc.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
