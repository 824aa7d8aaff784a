package consts

import "fmt"

// 会话类型
const (
	ConversationTypeSingle  = "single"
	ConversationTypeChannel = "channel"
)

// 用户角色
const (
	RoleCustomer        = "customer"
	RoleServiceProvider = "serviceProvider"
)

// MessageTypeNotification 系统通知消息类型
const MessageTypeNotification = "notification"

// Mongo 用户集合
const (
	CustomerCollection        = "customers"
	ServiceProviderCollection = "serviceproviders"
)

const (
	DefaultMessagePageSize = 20
	MaxMessagePageSize     = 100
)

// SPAdminVerifiedMessage 服务商通过审核后默认频道的欢迎语
func SPAdminVerifiedMessage(name string) string {
	return fmt.Sprintf("欢迎 %s，您的服务商账号已通过平台审核，现在可以开始与客户沟通了。", name)
}
