package listeners

import (
	"context"

	"HibiscusAlert/internal/fanout"
	"HibiscusAlert/internal/models"
	"HibiscusAlert/pkg/util"
)

// InitAlertListeners 注册告警创建监听：新告警触发一次粉丝推送扇出
func InitAlertListeners(svc *fanout.Service) {
	util.Sig().Connect(models.SigAlertCreate, func(sender any, params ...any) {
		alert, ok := sender.(*models.RemoteAlert)
		if !ok {
			return
		}

		go svc.HandleAlertCreated(context.Background(), alert)
	})
}
