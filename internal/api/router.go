package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Zaid3480/Real-Estate/internal/api/handlers"
	"github.com/Zaid3480/Real-Estate/internal/api/middleware"
	"github.com/Zaid3480/Real-Estate/internal/config"
	"github.com/Zaid3480/Real-Estate/internal/models"
	"github.com/Zaid3480/Real-Estate/internal/services"
	"github.com/Zaid3480/Real-Estate/internal/storage"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, db *mongo.Database, taskClient *asynq.Client) *gin.Engine {
	store, err := storage.NewStorage(cfg)
	if err != nil {
		log.Fatalf("CRITICAL: Failed to initialize storage for API: %v", err)
	}

	userService := services.NewUserService(db, cfg, taskClient)
	propertyService := services.NewPropertyService(db, userService, taskClient)
	shareService := services.NewShareService(db, userService)
	requirementService := services.NewRequirementService(db)
	supportService := services.NewSupportService(db, cfg, userService, taskClient)
	ticketService := services.NewTicketService(db)
	subscriptionService := services.NewSubscriptionService(db)
	areaService := services.NewAreaService(db)

	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	userHandler := handlers.NewUserHandler(userService)
	propertyHandler := handlers.NewPropertyHandler(cfg, propertyService, store)
	shareHandler := handlers.NewShareHandler(shareService)
	requirementHandler := handlers.NewRequirementHandler(requirementService, propertyService)
	supportHandler := handlers.NewSupportHandler(supportService, store)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	areaHandler := handlers.NewAreaHandler(areaService)

	authn := middleware.Authenticate(userService, cfg.JwtSecret)
	brokerOnly := middleware.RequireRole(models.RoleBroker, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"name":   cfg.AppName,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Uploaded media is served straight from disk for the local driver.
	if cfg.StorageDriver == "local" {
		r.Static(cfg.UploadBaseURL, cfg.UploadDir)
	}

	apiGroup := r.Group("/api")

	users := apiGroup.Group("/users")
	{
		users.POST("/register", userHandler.Register)
		users.POST("/login", userHandler.Login)
		users.POST("/verifyotp", userHandler.VerifyOTP)
		users.POST("/resendotp", userHandler.ResendOTP)
		users.GET("/profile", authn, userHandler.Profile)
		users.PUT("/edituser/:id", authn, userHandler.Edit)

		users.GET("/getuser/:id", authn, adminOnly, userHandler.GetByID)
		users.GET("/getallusers", authn, adminOnly, userHandler.GetAllUsers)
		users.GET("/getallbrokers", authn, adminOnly, userHandler.GetAllBrokers)
		users.PATCH("/activateuser/:id", authn, adminOnly, userHandler.SetActive)
		users.DELETE("/deleteuser/:id", authn, adminOnly, userHandler.Delete)
		users.GET("/totalcount", authn, adminOnly, userHandler.TotalCount)
		users.GET("/usersexcel", authn, adminOnly, userHandler.UsersExcel)
		users.GET("/brokersexcel", authn, adminOnly, userHandler.BrokersExcel)
	}

	property := apiGroup.Group("/property")
	{
		property.GET("/getallproperties", authn, propertyHandler.GetAll)
		property.GET("/getproperty/:id", authn, propertyHandler.GetByID)
		property.POST("/addproperty", authn, brokerOnly, propertyHandler.Create)
		property.GET("/myproperties", authn, brokerOnly, propertyHandler.MyProperties)
		property.PUT("/updateproperty/:id", authn, brokerOnly, propertyHandler.Update)
		property.PATCH("/changestatus/:id", authn, brokerOnly, propertyHandler.ChangeStatus)
		property.DELETE("/deleteproperty/:id", authn, brokerOnly, propertyHandler.Delete)
		property.GET("/brokerdashboard", authn, brokerOnly, propertyHandler.Dashboard)
	}

	share := apiGroup.Group("/shareproperty", authn)
	{
		share.POST("/share", brokerOnly, shareHandler.Create)
		share.PATCH("/changestatus/:id", shareHandler.ChangeStatus)
		share.GET("/getbyid/:id", shareHandler.GetByID)
		share.GET("/customers/:propertyId", brokerOnly, shareHandler.CustomersOfProperty)
		share.GET("/sharedwithme", shareHandler.SharedWithMe)
		share.GET("/sharedbyme", brokerOnly, shareHandler.SharedByMe)
	}

	support := apiGroup.Group("/support", authn)
	{
		support.POST("/create", supportHandler.Create)
		support.GET("/mine", supportHandler.Mine)
		support.GET("/getsupportbyid/:id", supportHandler.GetByID)
		support.GET("/getallsupportrequest", adminOnly, supportHandler.All)
		support.PATCH("/replytocustomer/:id", adminOnly, supportHandler.Reply)
	}

	ticket := apiGroup.Group("/ticket", authn, adminOnly)
	{
		ticket.POST("/create", ticketHandler.Create)
		ticket.GET("/getall", ticketHandler.All)
		ticket.PATCH("/changestatus/:id", ticketHandler.ChangeStatus)
	}

	requirement := apiGroup.Group("/requirement", authn)
	{
		requirement.POST("/create", requirementHandler.Create)
		requirement.GET("/mine", requirementHandler.Mine)
		requirement.PUT("/update/:id", requirementHandler.Update)
		requirement.GET("/getall", adminOnly, requirementHandler.All)
		requirement.DELETE("/delete/:id", requirementHandler.Delete)
		requirement.GET("/suggestedproperties/:id", requirementHandler.SuggestedProperties)
		requirement.GET("/suggestedcount/:id", requirementHandler.SuggestedCount)
	}

	subscription := apiGroup.Group("/subscription", authn)
	{
		subscription.POST("/create", adminOnly, subscriptionHandler.Create)
		subscription.GET("/mine", subscriptionHandler.Mine)
		subscription.GET("/getall", adminOnly, subscriptionHandler.All)
		subscription.PATCH("/refund/:id", adminOnly, subscriptionHandler.Refund)
	}

	area := apiGroup.Group("/area")
	{
		area.GET("/getall", areaHandler.List)
		area.POST("/create", authn, adminOnly, areaHandler.Create)
		area.PATCH("/activate/:id", authn, adminOnly, areaHandler.SetActive)
	}

	return r
}
