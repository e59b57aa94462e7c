package apierrors_test

import (
	"testing"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"taskpilot/pkg/apierrors"
	"taskpilot/pkg/translator"
)

func TestMain(m *testing.M) {
	translator.Translator = i18n.NewBundle(language.English)
	err := translator.Translator.AddMessages(language.English, &i18n.Message{
		ID:    apierrors.MsgTaskNotFound,
		Other: "Task not found.",
	})
	if err != nil {
		return
	}
	m.Run()
}

func TestCreateError_ReturnsTranslatedEnvelope(t *testing.T) {
	err := apierrors.CreateError(404, apierrors.MsgTaskNotFound, "en")
	assert.Equal(t, 404, err.ErrDetails.Code)
	assert.Equal(t, "Task not found.", err.ErrDetails.Message)
}

func TestGetTransErrorMsg_FallbackToKey(t *testing.T) {
	msg := apierrors.GetTransErrorMsg("unknown_key", "en")
	assert.Equal(t, "unknown_key", msg)
}

func TestGetTransErrorMsg_NilBundleReturnsKey(t *testing.T) {
	saved := translator.Translator
	translator.Translator = nil
	defer func() { translator.Translator = saved }()

	assert.Equal(t, apierrors.MsgChatFailed, apierrors.GetTransErrorMsg(apierrors.MsgChatFailed, "fr"))
}

func TestJsonErr_ErrorMethod(t *testing.T) {
	err := apierrors.CreateError(500, apierrors.MsgTaskNotFound, "en")
	assert.Equal(t, "Code: 500, Message: Task not found.", err.Error())
}
