package consts

const (
	SPDefaultChannelKey = "im:sp:default_channel:"
	RevokedTokenKey     = "auth:revoked:"
)
