package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	activeupdate "smena-golang/http-server/active/update"
	getadmin "smena-golang/http-server/admin/get"
	saveadmin "smena-golang/http-server/admin/save"
	upadmin "smena-golang/http-server/admin/update"
	saveallocate "smena-golang/http-server/allocate/save"
	getassignment "smena-golang/http-server/assignment/get"
	getcatalog "smena-golang/http-server/catalog/get"
	upcatalog "smena-golang/http-server/catalog/update"
	report_excel "smena-golang/http-server/generate-report/generate-excel"
	getorder "smena-golang/http-server/order/get"
	saverollover "smena-golang/http-server/rollover/save"
	savetransfer "smena-golang/http-server/transfer/save"
	uptransfer "smena-golang/http-server/transfer/update"
	"smena-golang/internal/config"
	"smena-golang/internal/middleware/auth"
	"smena-golang/internal/service/activework"
	"smena-golang/internal/service/allocate"
	generate_excel "smena-golang/internal/service/generate-excel"
	"smena-golang/internal/service/rollover"
	"smena-golang/internal/service/transfer"
	"smena-golang/internal/storage/mysql"
)

func routes(
	cfg config.Config,
	log *slog.Logger,
	storage *mysql.Storage,
	allocateService *allocate.Service,
	transferService *transfer.Service,
	activeService *activework.Service,
	rolloverService *rollover.Service,
	reportService *generate_excel.GenerateExcelService,
) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Наряды для планёрки
	router.Get("/api/orders", getorder.GetWorkOrders(log, storage))

	// Распределение нарядов по станкам и сменам
	router.Post("/api/assignments", saveallocate.SaveAllocation(log, allocateService))
	router.Get("/api/assignments", getassignment.GetBySlot(log, storage))
	router.Get("/api/assignments/by-order", getassignment.GetByWorkOrder(log, storage))

	// Передачи между станками: предложение, подтверждение, отказ
	router.Post("/api/transfers", savetransfer.SaveOneWay(log, transferService))
	router.Post("/api/transfers/swap", savetransfer.SaveSwap(log, transferService))
	router.Post("/api/transfers/approve/{id}", uptransfer.ApproveTransfer(log, transferService))
	router.Post("/api/transfers/reject/{id}", uptransfer.RejectTransfer(log, transferService))

	// Текущая работа станка
	router.Post("/api/active/start", activeupdate.StartWork(log, activeService))
	router.Post("/api/active/pause", activeupdate.PauseWork(log, activeService))
	router.Post("/api/active/swap", activeupdate.SwapWork(log, activeService))
	router.Post("/api/active/complete", activeupdate.CompleteWork(log, activeService))

	// Перенос незавершённого через границу смены
	router.Post("/api/rollover", saverollover.RunRollover(log, rolloverService))

	// Двухфазная запись ручных норм
	router.Get("/api/catalog/pending", getcatalog.GetPendingRates(log, storage))
	router.Post("/api/catalog/finalize", upcatalog.FinalizeRates(log, storage))

	// Отчёт загрузки станков за день
	router.Get("/api/report/excel", report_excel.GenerateReportExcel(log, reportService))

	// Админка: станки и справочники норм
	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/machines", getadmin.GetMachinesAdmin(log, storage))
	adminRouter.Post("/machines/save", saveadmin.SaveMachineAdmin(log, storage))
	adminRouter.Put("/machines/update", upadmin.UpdateMachineAdmin(log, storage))
	adminRouter.Get("/rates/regrind", getadmin.GetRegrindRatesAdmin(log, storage))
	adminRouter.Put("/rates/update", upadmin.UpdateRateAdmin(log, storage))

	router.Mount("/api/admin", adminRouter)

	return router
}
