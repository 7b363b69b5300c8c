package setup

import (
	"github.com/libretime/libretime-setup/internal/constants"
	"github.com/libretime/libretime-setup/internal/database"
)

// Params are the connection parameters entered by the operator.
type Params struct {
	Host     string
	Name     string
	User     string
	Password string
}

func (p Params) validate() *Error {
	var missing []string
	if p.Host == "" {
		missing = append(missing, FieldHost)
	}
	if p.Name == "" {
		missing = append(missing, FieldName)
	}
	if p.User == "" {
		missing = append(missing, FieldUser)
	}
	if p.Password == "" {
		missing = append(missing, FieldPass)
	}

	if len(missing) > 0 {
		return newError("Please fill in all the database fields!", nil, missing...)
	}
	return nil
}

// config returns the connection configuration to dbName on the operator's host.
func (p Params) config(dbName string) database.Config {
	return database.Config{
		Host:     p.Host,
		Port:     constants.DatabasePort,
		User:     p.User,
		Password: p.Password,
		DBName:   dbName,
	}
}
