package irc

// IRC Messages, these messages are 1-1 constant to string lookups for the
// verbs the bot sends and routes.
const (
	PRIVMSG = "PRIVMSG"
	NOTICE  = "NOTICE"
	PING    = "PING"
	PONG    = "PONG"
	NICK    = "NICK"
	USER    = "USER"
	JOIN    = "JOIN"
	PART    = "PART"
	MODE    = "MODE"
	QUIT    = "QUIT"
	ERROR   = "ERROR"
)

// Pseudo Messages, these messages are not real messages defined by the irc
// protocol but the bot provides them so connection lifecycle can be routed
// like any other line.
const (
	CONNECT    = "CONNECT"
	DISCONNECT = "DISCONNECT"
)

// Numeric server replies. Three-digit codes arrive in the verb position of
// a server-prefixed line; the names follow rfc2812 section 5.
const (
	RPL_WELCOME  = 1
	RPL_YOURHOST = 2
	RPL_CREATED  = 3
	RPL_MYINFO   = 4
	RPL_ISUPPORT = 5

	RPL_LUSERCLIENT = 251
	RPL_NAMREPLY    = 353
	RPL_ENDOFNAMES  = 366
	RPL_MOTD        = 372
	RPL_MOTDSTART   = 375
	RPL_ENDOFMOTD   = 376

	ERR_NOSUCHNICK       = 401
	ERR_NOSUCHCHANNEL    = 403
	ERR_NOMOTD           = 422
	ERR_ERRONEUSNICKNAME = 432
	ERR_NICKNAMEINUSE    = 433
	ERR_NOTREGISTERED    = 451
	ERR_PASSWDMISMATCH   = 464
)
