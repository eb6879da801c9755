package crmhdl

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "pocket_crm/internal/api/crm/models"
	crmsvc "pocket_crm/internal/api/crm/service"
)

// deadConnWriter giả lập kết nối client đã đóng: mọi lần ghi đều lỗi
type deadConnWriter struct{}

func (deadConnWriter) Write(p []byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestWriteFeedEvents_GhiSnapshotRaStream(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	ch := make(chan []models.Customer, 1)
	ch <- []models.Customer{{ID: primitive.NewObjectID(), Name: "Khách A"}}
	close(ch)
	sub := &crmsvc.CustomerSubscription{Updates: ch}

	writeFeedEvents(w, sub, time.Hour)

	out := buf.String()
	if !strings.Contains(out, "data: ") || !strings.Contains(out, "Khách A") {
		t.Errorf("Snapshot phải được ghi ra stream dạng SSE, got %q", out)
	}
}

func TestWriteFeedEvents_ThoatKhiChannelDong(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	ch := make(chan []models.Customer)
	close(ch)
	sub := &crmsvc.CustomerSubscription{Updates: ch}

	done := make(chan struct{})
	go func() {
		writeFeedEvents(w, sub, time.Hour)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Channel đóng phải làm vòng ghi thoát ngay")
	}
}

func TestWriteFeedEvents_PhatHienClientNgatKhiKhongCoSuKien(t *testing.T) {
	// Client rảnh rỗi ngắt kết nối, không có sự kiện nào tới: keepalive
	// phải làm lỗi ghi lộ ra để vòng ghi thoát và subscription được dọn
	w := bufio.NewWriter(deadConnWriter{})
	sub := &crmsvc.CustomerSubscription{Updates: make(chan []models.Customer)}

	done := make(chan struct{})
	go func() {
		writeFeedEvents(w, sub, 5*time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Kết nối chết phải được phát hiện trong một chu kỳ keepalive, vòng ghi không được kẹt chờ sự kiện")
	}
}
