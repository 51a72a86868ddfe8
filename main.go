package main

import "evokcrm/internal/app"

// @title        EVOK Lead API
// @version      1.0
// @description  Lead pipeline tracking: statuses, activity logs, meeting
// @description  calendar and dashboard aggregation.
// @BasePath     /api
func main() {
	app.Run()
}
