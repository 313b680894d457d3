package handler

import (
	analyticshandler "rental-app-go/internal/transport/httpserver/handler/analytics"
	commonhandler "rental-app-go/internal/transport/httpserver/handler/common"
	contractshandler "rental-app-go/internal/transport/httpserver/handler/contracts"
	notificationshandler "rental-app-go/internal/transport/httpserver/handler/notifications"
	paymentshandler "rental-app-go/internal/transport/httpserver/handler/payments"
	propertieshandler "rental-app-go/internal/transport/httpserver/handler/properties"
	repairshandler "rental-app-go/internal/transport/httpserver/handler/repairs"
	teamhandler "rental-app-go/internal/transport/httpserver/handler/team"
	viewingshandler "rental-app-go/internal/transport/httpserver/handler/viewings"
)

type Handlers struct {
	Common        *commonhandler.Handlers
	Properties    *propertieshandler.Handlers
	Contracts     *contractshandler.Handlers
	Payments      *paymentshandler.Handlers
	Viewings      *viewingshandler.Handlers
	Repairs       *repairshandler.Handlers
	Team          *teamhandler.Handlers
	Notifications *notificationshandler.Handlers
	Analytics     *analyticshandler.Handlers
}
