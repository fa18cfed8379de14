package authz

import "github.com/BruksfildServices01/gestao-agenda/internal/models"

// Permissions é a tabela de acesso por papel.
type Permissions struct {
	IsAdmin        bool `json:"is_admin"`
	IsProfessional bool `json:"is_professional"`
	IsClient       bool `json:"is_client"`

	ManageProfessionals bool `json:"manage_professionals"`
	ViewAllClients      bool `json:"view_all_clients"`
	ViewGeneralFinance  bool `json:"view_general_finance"`
	EditServices        bool `json:"edit_services"`
	ConfigureApp        bool `json:"configure_app"`

	ViewOwnAgenda  bool `json:"view_own_agenda"`
	ViewOwnClients bool `json:"view_own_clients"`
	ViewOwnFinance bool `json:"view_own_finance"`

	BookAppointment bool `json:"book_appointment"`
	ViewServices    bool `json:"view_services"`
}

func For(role string) Permissions {
	admin := role == models.RoleAdmin
	pro := role == models.RoleProfessional
	staff := admin || pro

	return Permissions{
		IsAdmin:        admin,
		IsProfessional: pro,
		IsClient:       role == models.RoleClient,

		ManageProfessionals: admin,
		ViewAllClients:      admin,
		ViewGeneralFinance:  admin,
		EditServices:        admin,
		ConfigureApp:        admin,

		ViewOwnAgenda:  staff,
		ViewOwnClients: staff,
		ViewOwnFinance: staff,

		BookAppointment: true,
		ViewServices:    true,
	}
}

// Predicados prontos para middleware.RequirePermission.

func CanManageProfessionals(p Permissions) bool { return p.ManageProfessionals }
func CanEditServices(p Permissions) bool        { return p.EditServices }
func CanConfigureApp(p Permissions) bool        { return p.ConfigureApp }
func CanViewOwnAgenda(p Permissions) bool       { return p.ViewOwnAgenda }
func CanViewOwnClients(p Permissions) bool      { return p.ViewOwnClients }
func CanBook(p Permissions) bool                { return p.BookAppointment }
