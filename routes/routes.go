package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	controller "okrtracker/controllers"
	"okrtracker/middleware"
	"okrtracker/sessions"
	"okrtracker/store"
	"okrtracker/utils"
)

// Dependencies is everything the route table needs to build its handlers.
type Dependencies struct {
	Companies  store.CompanyStore
	Users      store.UserStore
	Objectives store.ObjectiveStore
	KeyResults store.KeyResultStore

	Sessions *sessions.Manager
	Tokens   *utils.TokenManager
	// Mailer is optional; nil disables welcome mails.
	Mailer controller.WelcomeSender

	// CookieKey seals cookies with encryptcookie; see sessions.CookieKey.
	CookieKey      string
	AllowedOrigins []string
	AccessLog      bool
}

func Setup(app *fiber.App, deps Dependencies) {
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(helmet.New())
	if deps.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path} ${locals:requestid}\n",
		}))
	}

	cors := middleware.DefaultCORSConfig()
	if len(deps.AllowedOrigins) > 0 {
		cors.AllowedOrigins = deps.AllowedOrigins
	}
	app.Use(middleware.CORS(cors))
	app.Use(encryptcookie.New(encryptcookie.Config{Key: deps.CookieKey}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hello, world!")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	guard := middleware.NewGuard(deps.Sessions, deps.Tokens)
	api := app.Group("/api")

	SetupCompanyRoutes(api, guard, deps)
	SetupUserRoutes(api, guard, deps)
	SetupObjectiveRoutes(api, guard, deps)

	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFound("Route not found")
	})
}

// SetupCompanyRoutes mounts tenant signup, listing and company login.
// Each guarded route carries the guard itself: a group-level guard on
// "/:companyID" would also match "/companies/...".
func SetupCompanyRoutes(api fiber.Router, guard *middleware.Guard, deps Dependencies) {
	companies := controller.NewCompanyController(deps.Companies, deps.Sessions, deps.Tokens)

	api.Post("/companies/login", companies.Login)
	api.Post("/companies/logout", companies.Logout)

	api.Post("/companies", companies.CreateCompany)
	api.Get("/companies", companies.GetCompanies)
	api.Get("/companies/:id", companies.GetCompany)
	api.Put("/companies/:id", guard.Company("id"), companies.UpdateCompany)
	api.Delete("/companies/:id", guard.Company("id"), companies.DeleteCompany)
}

func SetupUserRoutes(api fiber.Router, guard *middleware.Guard, deps Dependencies) {
	users := controller.NewUserController(deps.Users, deps.Companies, deps.Sessions, deps.Mailer)

	api.Post("/users/login", users.Login)

	// Registered ahead of "/:userID" so the literal segments win.
	api.Get("/:companyID/users/session", users.Session)
	api.Post("/:companyID/users/logout", users.Logout)
	api.Post("/:companyID/users/register", guard.Company("companyID"), users.Register)

	api.Get("/:companyID/users", guard.Company("companyID"), users.GetUsers)
	api.Get("/:companyID/users/:userID", guard.Company("companyID"), users.GetUser)
	api.Put("/:companyID/users/:userID", guard.Company("companyID"), users.UpdateUser)
	api.Delete("/:companyID/users/:userID", guard.Company("companyID"), users.DeleteUser)
}

func SetupObjectiveRoutes(api fiber.Router, guard *middleware.Guard, deps Dependencies) {
	objectives := controller.NewObjectiveController(deps.Objectives, deps.Users)
	keyResults := controller.NewKeyResultController(deps.KeyResults, deps.Objectives, deps.Users)
	protected := guard.Company("companyID")

	api.Get("/:companyID/objectives/test", objectives.Ping)

	api.Post("/:companyID/objectives", protected, objectives.CreateObjective)
	api.Get("/:companyID/objectives", protected, objectives.GetObjectives)
	api.Get("/:companyID/objectives/:objectiveID", protected, objectives.GetObjective)
	api.Put("/:companyID/objectives/:objectiveID", protected, objectives.UpdateObjective)
	api.Delete("/:companyID/objectives/:objectiveID", protected, objectives.DeleteObjective)

	api.Post("/:companyID/objectives/:objectiveID/keyresults", protected, keyResults.CreateKeyResult)
	api.Get("/:companyID/objectives/:objectiveID/keyresults", protected, keyResults.GetKeyResults)
	api.Put("/:companyID/objectives/:objectiveID/keyresults/:keyResultID", protected, keyResults.UpdateKeyResult)
	api.Delete("/:companyID/objectives/:objectiveID/keyresults/:keyResultID", protected, keyResults.DeleteKeyResult)
}
