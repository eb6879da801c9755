// Package authsvc - kênh gửi SMS cho phiên xác thực OTP.
package authsvc

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"pocket_crm/config"
	"pocket_crm/internal/common"
)

// SmsSender gửi một tin nhắn văn bản tới một số điện thoại E.164.
// Interface để test identity service không cần Twilio thật.
type SmsSender interface {
	Send(ctx context.Context, to string, body string) error
}

// TwilioSmsSender triển khai SmsSender qua Twilio REST API
type TwilioSmsSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSmsSender tạo mới TwilioSmsSender từ cấu hình server
func NewTwilioSmsSender(cfg *config.Configuration) *TwilioSmsSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &TwilioSmsSender{
		client: client,
		from:   cfg.TwilioPhoneNumber,
	}
}

// Send gửi SMS. Lỗi transport được log chi tiết nhưng trả về lỗi taxonomy
// để caller không phải đọc lỗi vendor-specific.
func (s *TwilioSmsSender) Send(ctx context.Context, to string, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	_, err := s.client.Api.CreateMessage(params)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"to":    to,
			"error": err.Error(),
		}).Error("TwilioSmsSender: Lỗi gửi SMS")
		return common.ErrChallengeDispatch
	}
	return nil
}
