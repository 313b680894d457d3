package notification

import (
	"testing"

	"rental-app-go/internal/domain/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRendersEveryEvent(t *testing.T) {
	catalog, err := NewCatalog("zh")
	require.NoError(t, err)

	keys := []lifecycle.EventKey{
		lifecycle.EventViewingRequested,
		lifecycle.EventViewingConfirmed,
		lifecycle.EventViewingRescheduled,
		lifecycle.EventViewingCancelled,
		lifecycle.EventContractInvited,
		lifecycle.EventContractSigned,
		lifecycle.EventContractTerminated,
		lifecycle.EventPaymentReminder,
		lifecycle.EventPaymentReceived,
		lifecycle.EventRepairRequested,
		lifecycle.EventRepairCompleted,
	}
	for _, locale := range []string{"zh", "en"} {
		for _, key := range keys {
			message, err := catalog.Render(locale, key, map[string]string{lifecycle.ParamPropertyTitle: "阳光公寓"})
			require.NoError(t, err, "%s/%s", locale, key)
			assert.NotEmpty(t, message.Title, "%s/%s", locale, key)
			assert.NotContains(t, message.Content, "<no value>", "%s/%s", locale, key)
		}
	}
}

func TestCatalogInterpolatesParams(t *testing.T) {
	catalog, err := NewCatalog("")
	require.NoError(t, err)

	message, err := catalog.Render("", lifecycle.EventViewingRequested, map[string]string{
		lifecycle.ParamTenantName:    "张三",
		lifecycle.ParamPropertyTitle: "阳光公寓 3A",
	})
	require.NoError(t, err)
	assert.Equal(t, "收到新的看房预约", message.Title)
	assert.Equal(t, "张三预约看房《阳光公寓 3A》", message.Content)

	message, err = catalog.Render("zh", lifecycle.EventPaymentReminder, map[string]string{
		lifecycle.ParamPropertyTitle: "阳光公寓 3A",
		lifecycle.ParamAmount:        "4500.00",
		lifecycle.ParamDueDate:       "2024-02-05",
	})
	require.NoError(t, err)
	assert.Equal(t, "《阳光公寓 3A》房租¥4500.00将于2024-02-05到期", message.Content)
}

func TestCatalogEnglish(t *testing.T) {
	catalog, err := NewCatalog("zh")
	require.NoError(t, err)

	message, err := catalog.Render("en", lifecycle.EventRepairCompleted, map[string]string{lifecycle.ParamPropertyTitle: "Flat 3A"})
	require.NoError(t, err)
	assert.Equal(t, "Repair completed", message.Title)
	assert.Contains(t, message.Content, "Flat 3A")
}

func TestCatalogUnknownKey(t *testing.T) {
	catalog, err := NewCatalog("zh")
	require.NoError(t, err)

	_, err = catalog.Render("zh", lifecycle.EventKey("somethingElse"), nil)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}
