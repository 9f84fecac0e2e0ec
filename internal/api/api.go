package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/jbweber/homelab/northwind/internal/audit"
	"github.com/jbweber/homelab/northwind/internal/auth"
	"github.com/jbweber/homelab/northwind/internal/domain"
	"github.com/jbweber/homelab/northwind/internal/envelope"
	"github.com/jbweber/homelab/northwind/internal/logging"
	"github.com/jbweber/homelab/northwind/internal/repository"
)

// Options controls response policy
type Options struct {
	// EmptyListNotFound answers an empty collection with 404 instead of 200 []
	EmptyListNotFound bool
	// BcryptCost is used when registering users
	BcryptCost int
}

// API holds the dependencies shared by every handler. Nothing request-scoped
// is stored here.
type API struct {
	repos    *repository.Northwind
	tokens   *auth.TokenService
	sink     audit.Sink
	validate *validator.Validate
	opts     Options
	now      func() time.Time
}

// New creates the API. A nil sink drops audit records.
func New(repos *repository.Northwind, tokens *auth.TokenService, sink audit.Sink, opts Options) *API {
	if sink == nil {
		sink = audit.Multi{}
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = 10
	}
	return &API{
		repos:    repos,
		tokens:   tokens,
		sink:     sink,
		validate: newValidator(),
		opts:     opts,
		now:      time.Now,
	}
}

// access describes who may call a route
type access struct {
	public bool
	roles  []string
}

var (
	public    = access{public: true}
	signedIn  = access{}
	adminOnly = access{roles: []string{domain.RoleAdmin}}
	anyRole   = access{roles: []string{domain.RoleAdmin, domain.RoleCustomer}}
)

// handlerFunc handles one request for an explicit caller and returns the
// envelope in its terminal state.
type handlerFunc func(r *http.Request, rc auth.RequestContext) *envelope.Response

// route wraps h with authorization and emits exactly one audit record
// before the envelope is written.
func (a *API) route(details string, acc access, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rc := auth.FromContext(ctx)
		record := audit.NewBuilder().
			SetRequestID(middleware.GetReqID(ctx)).
			SetDetails(details).
			SetMethodType(r.Method).
			SetUser(rc.UserName).
			SetRole(rc.Role()).
			SetTimestamp(a.now())

		var resp *envelope.Response
		if acc.public {
			resp = h(r, rc)
		} else if err := auth.Authorize(rc, acc.roles...); err != nil {
			resp = a.failure(r, err)
		} else {
			resp = h(r, rc)
		}

		record.SetStatusCode(resp.StatusCode)
		if resp.IsSuccess {
			record.SetSuccess()
		} else {
			record.SetFailed().SetErrorMessage(resp.Error())
		}
		if err := a.sink.Emit(ctx, record.Build()); err != nil {
			logging.FromContext(ctx).Warn("failed to emit audit record", "error", err, "details", details)
		}

		resp.Write(w)
	}
}

// RegisterRoutes registers every API endpoint on r
func (a *API) RegisterRoutes(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		envelope.WriteError(w, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		envelope.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		envelope.New().Succeed(http.StatusOK, map[string]string{"status": "ok"}).Write(w)
	})

	r.Route("/api/Auth", func(r chi.Router) {
		r.Post("/register", a.route("Auth.Register", public, a.register))
		r.Post("/login", a.route("Auth.Login", public, a.login))
		r.Get("/me", a.route("Auth.Me", signedIn, a.me))
	})

	categories := a.categories()
	customers := a.customers()
	employees := a.employees()
	shippers := a.shippers()
	suppliers := a.suppliers()
	regions := a.regions()
	territories := a.territories()
	products := a.products()
	orders := a.orders()
	orderDetails := a.orderDetails()

	categories.mount(r, products.childrenOf(categories, "category_id"))
	customers.mount(r, orders.childrenOf(customers, "customer_id"))
	employees.mount(r, orders.childrenOf(employees, "employee_id"))
	shippers.mount(r, orders.childrenOf(shippers, "ship_via"))
	suppliers.mount(r, products.childrenOf(suppliers, "supplier_id"))
	regions.mount(r, territories.childrenOf(regions, "region_id"))
	territories.mount(r)
	products.mount(r)
	orders.mount(r, orderDetails.childrenOf(orders, "order_id"))
	orderDetails.mount(r)

	a.auditLogs().mountReadOnly(r)
}
