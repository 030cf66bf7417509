package tenant

// Capabilities is the full permission surface of a role. Handlers gate on
// these bits; services below the HTTP layer stay role-agnostic.
type Capabilities struct {
	ViewDashboard  bool
	ViewOrders     bool
	ManageOrders   bool
	ViewMenu       bool
	ManageMenu     bool
	ViewTables     bool
	ManageTables   bool
	ViewStaff      bool
	ManageStaff    bool
	ViewSettings   bool
	ManageSettings bool
}

var roleCapabilities = map[Role]Capabilities{
	RoleOwner: {
		ViewDashboard: true,
		ViewOrders:    true, ManageOrders: true,
		ViewMenu: true, ManageMenu: true,
		ViewTables: true, ManageTables: true,
		ViewStaff: true, ManageStaff: true,
		ViewSettings: true, ManageSettings: true,
	},
	RoleAdmin: {
		ViewDashboard: true,
		ViewOrders:    true, ManageOrders: true,
		ViewMenu: true, ManageMenu: true,
		ViewTables: true, ManageTables: true,
		ViewStaff: true, ManageStaff: true,
		ViewSettings: true, ManageSettings: true,
	},
	RoleManager: {
		ViewOrders: true, ManageOrders: true,
		ViewMenu: true, ManageMenu: true,
		ViewTables: true, ManageTables: true,
		ViewStaff: true,
	},
	RoleStaff: {
		ViewOrders: true, ManageOrders: true,
		ViewMenu: true,
	},
	RoleWaiter: {
		ViewOrders: true, ManageOrders: true,
		ViewMenu: true,
	},
	RoleKitchen: {
		ViewOrders: true, ManageOrders: true,
	},
}

// RoleCapabilities is a pure function from role to capability set; unknown
// roles get the zero value, which permits nothing.
func RoleCapabilities(r Role) Capabilities {
	return roleCapabilities[r]
}
