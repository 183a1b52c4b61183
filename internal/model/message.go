package model

type InboundMessage struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	LanguageCode string
	IsGroup      bool
}

type ChatAction string

const (
	ChatActionTyping      = ChatAction("typing")
	ChatActionRecordVoice = ChatAction("record_voice")
	ChatActionUploadPhoto = ChatAction("upload_photo")
)
