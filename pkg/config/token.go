package config

type TokenConf struct {
	ContextTimeout         int
	AccessTokenExpiryHour  int
	RefreshTokenExpiryHour int
	AccessTokenSecret      string
	RefreshTokenSecret     string
}

func NewTokenConf() *TokenConf {
	c := GetConfig()
	accessExpiry := c.Auth.AccessTokenExpiryHour
	if accessExpiry == 0 {
		accessExpiry = 1
	}
	refreshExpiry := c.Auth.RefreshTokenExpiryHour
	if refreshExpiry == 0 {
		refreshExpiry = 168
	}
	return &TokenConf{
		ContextTimeout:         2,
		AccessTokenExpiryHour:  accessExpiry,
		RefreshTokenExpiryHour: refreshExpiry,
		AccessTokenSecret:      c.Auth.AccessTokenSecret,
		RefreshTokenSecret:     c.Auth.RefreshTokenSecret,
	}
}
