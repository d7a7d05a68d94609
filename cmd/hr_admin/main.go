// Command hr_admin is the operator CLI: schema migrations, counter
// reconciliation, legacy reference migration, bulk import and account
// bootstrap.
package main

func main() {
	Execute()
}
