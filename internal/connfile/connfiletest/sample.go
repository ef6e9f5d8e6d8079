package connfiletest

import (
	"ConnKeeper/internal/model"
	"ConnKeeper/internal/schema"
)

// SampleVersion — последняя версия, в которой учётные данные ещё хранятся
// в узлах.
var SampleVersion = schema.V(2, 6)

// Sample строит небольшое дерево:
//
//	Prod (папка, Username=ops, Password=prod-pw)
//	  web (SSH2, наследует Username и Password)
//	db (RDP, Username=dba, Password=db-pw)
func Sample() *model.Node {
	root := model.NewNode("root", model.KindRoot)

	prod := model.NewNode("c-prod", model.KindContainer)
	prod.Info.Name = "Prod"
	prod.Info.Username = "ops"
	prod.Info.Password = "prod-pw"
	prod.Expanded = true

	web := model.NewNode("n-web", model.KindConnection)
	web.Info.Name = "web"
	web.Info.Hostname = "web.example.org"
	web.Info.Protocol = model.ProtocolSSH2
	web.Info.Port = 22
	web.Inheritance.Set(model.FieldUsername, true)
	web.Inheritance.Set(model.FieldPassword, true)

	db := model.NewNode("n-db", model.KindConnection)
	db.Info.Name = "db"
	db.Info.Hostname = "db.example.org"
	db.Info.Username = "dba"
	db.Info.Password = "db-pw"

	_ = root.AddChild(prod)
	_ = prod.AddChild(web)
	_ = root.AddChild(db)
	return root
}

// SampleDocument кодирует Sample в версии SampleVersion.
func SampleDocument(passphrase string) ([]byte, error) {
	s, err := Encode(Sample(), Options{Version: SampleVersion, Passphrase: passphrase})
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
