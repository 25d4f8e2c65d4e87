package res

const (
	AppName       = "mpdmmkeys"
	DisplayName   = "mpdmmkeys"
	AppVersion    = "0.2.0"
	AppVersionTag = "v" + AppVersion
	ConfigFile    = "mpdmmkeys.cfg"
	GithubURL     = "https://github.com/zapster/mpdmmkeys"
	Copyright     = "Copyright © 2011–2026 Josef Eisl and contributors"
)
