package auth

// Permission constants define the available permissions in the system.
// These are used for role-based access control (RBAC) to restrict access
// to specific resources and actions.
const (
	// PermDashboardView allows viewing the admin dashboard.
	PermDashboardView = "dashboard.view"

	// PermNewsManage allows creating, editing, publishing and deleting news articles.
	PermNewsManage = "news.manage"
	// PermPageManage allows creating, editing, publishing and deleting static pages.
	PermPageManage = "page.manage"
	// PermServiceManage allows creating, editing, publishing and deleting services.
	PermServiceManage = "service.manage"
	// PermSliderManage allows creating, editing, publishing and deleting slider entries.
	PermSliderManage = "slider.manage"
	// PermContactManage allows viewing and deleting contact form submissions.
	PermContactManage = "contact.manage"

	// PermMediaUpload allows uploading files to the media store.
	PermMediaUpload = "media.upload"

	// PermAdminSettings allows managing site-wide settings.
	PermAdminSettings = "admin.settings"
	// PermAdminUsers allows managing user accounts.
	PermAdminUsers = "admin.users"
	// PermAdminRoles allows managing roles and their permissions.
	PermAdminRoles = "admin.roles"
)
