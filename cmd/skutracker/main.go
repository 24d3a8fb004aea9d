package main

// @title SKU Tracker API
// @version 1.0
// @description Ingests shipment events from FedEx, UPS and USPS and product data from UPCItemDB and Barcode Lookup, and serves per-SKU timelines.
// @contact.name API Support
// @contact.email support@skutracker.dev
// @license.name MIT
// @host localhost:8080
// @BasePath /api/v1
func main() {
	Execute()
}
