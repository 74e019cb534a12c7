package service

// AuthorityServiceWrapper defines middleware composition for
// AuthorityService. Implementations wrap an existing AuthorityService to
// add behavior such as validation.
type AuthorityServiceWrapper interface {
	Wrap(AuthorityService) AuthorityService
}
