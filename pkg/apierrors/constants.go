package apierrors

const (
	MsgInvalidTaskID         = "invalidTaskID"
	MsgInvalidTaskPayload    = "invalidTaskPayload"
	MsgTaskNotFound          = "taskNotFound"
	MsgFailListTasks         = "failListTasks"
	MsgFailCreateTask        = "failCreateTask"
	MsgFailUpdateTask        = "failUpdateTask"
	MsgFailDeleteTask        = "failDeleteTask"
	MsgConversationNotFound  = "conversationNotFound"
	MsgFailListConversations = "failListConversations"
	MsgInvalidChatPayload    = "invalidChatPayload"
	MsgChatRateLimited       = "chatRateLimited"
	MsgChatUnavailable       = "chatUnavailable"
	MsgChatFailed            = "chatFailed"
	MsgUnauthorized          = "unauthorized"
)
