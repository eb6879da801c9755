package logger

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// AsyncHook ghi log bất đồng bộ để tránh blocking request handling.
// Entries được buffer vào channel và ghi vào các writers trong một goroutine riêng.
type AsyncHook struct {
	writers []io.Writer
	entries chan []byte
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// NewAsyncHook tạo một async hook mới với danh sách writers.
// bufferSize: kích thước buffer cho log entries (<=0 dùng mặc định 1000).
func NewAsyncHook(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	hook := &AsyncHook{
		writers: writers,
		entries: make(chan []byte, bufferSize),
	}

	hook.wg.Add(1)
	go hook.processEntries()

	return hook
}

// Levels trả về các log levels mà hook này xử lý
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire được gọi mỗi khi có log entry mới.
// Không block: nếu channel đầy, entry bị bỏ qua.
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	data, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()

	if closed {
		// Hook đã đóng: ghi trực tiếp (fallback lúc shutdown)
		for _, w := range h.writers {
			_, _ = w.Write(data)
		}
		return nil
	}

	select {
	case h.entries <- data:
	default:
		// Channel đầy: bỏ entry này thay vì block request
	}
	return nil
}

// processEntries ghi các entries từ channel vào tất cả writers
func (h *AsyncHook) processEntries() {
	defer h.wg.Done()
	for data := range h.entries {
		for _, w := range h.writers {
			_, _ = w.Write(data)
		}
	}
}

// Close đóng hook và chờ ghi hết các entries còn trong buffer
func (h *AsyncHook) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()

	close(h.entries)
	h.wg.Wait()
}
