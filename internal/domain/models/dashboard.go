package models

import "time"

// DashboardStats is the derived summary shown on the ranch dashboard.
type DashboardStats struct {
	TotalCattle       int     `bson:"total_cattle" json:"totalCattle"`
	ActiveCows        int     `bson:"active_cows" json:"activeCows"`
	TodayProduction   float64 `bson:"today_production" json:"todayProduction"`
	MonthlyProduction float64 `bson:"monthly_production" json:"monthlyProduction"`
	PendingTasks      int     `bson:"pending_tasks" json:"pendingTasks"`
	EstimatedRevenue  float64 `bson:"estimated_revenue" json:"estimatedRevenue"`
}

// DashboardSnapshot is the daily dashboard archive stored in MongoDB.
type DashboardSnapshot struct {
	RanchID   string         `bson:"ranch_id" json:"ranchId"`
	RanchName string         `bson:"ranch_name" json:"ranchName"`
	Date      time.Time      `bson:"date" json:"date"`
	Stats     DashboardStats `bson:"stats" json:"stats"`
	CreatedAt time.Time      `bson:"created_at" json:"createdAt"`
}
