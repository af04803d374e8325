package mockapi

import (
	"sync"
	"time"

	"github.com/hashicorp/go-memdb"
	"github.com/strrl/blogpessoal/pkg/models"
)

const (
	tableUsuarios  = "usuarios"
	tableTokens    = "tokens"
	tableTemas     = "temas"
	tablePostagens = "postagens"
)

var dbSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableUsuarios: {
			Name: tableUsuarios,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "ID"},
				},
				"usuario": {
					Name:    "usuario",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Usuario", Lowercase: true},
				},
			},
		},
		tableTokens: {
			Name: tableTokens,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Token"},
				},
				"expires": {
					Name:    "expires",
					Unique:  false,
					Indexer: &memdb.IntFieldIndex{Field: "Expires"},
				},
			},
		},
		tableTemas: {
			Name: tableTemas,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "ID"},
				},
			},
		},
		tablePostagens: {
			Name: tablePostagens,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "ID"},
				},
			},
		},
	},
}

type usuarioRecord struct {
	ID      int64
	Nome    string
	Usuario string
	Hash    []byte
	Foto    string
}

func (u *usuarioRecord) public() models.Usuario {
	return models.Usuario{ID: u.ID, Nome: u.Nome, Usuario: u.Usuario, Foto: u.Foto}
}

type tokenRecord struct {
	Token   string
	UserID  int64
	Expires int64
}

type temaRecord struct {
	ID        int64
	Descricao string
}

type postagemRecord struct {
	ID     int64
	Titulo string
	Texto  string
	Data   time.Time
	TemaID int64
	UserID int64
}

// store wraps the memdb database and the id sequences of every table
type store struct {
	db *memdb.MemDB

	mu  sync.Mutex
	seq map[string]int64
}

func newStore() (*store, error) {
	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return nil, err
	}
	return &store{db: db, seq: make(map[string]int64)}, nil
}

func (s *store) nextID(table string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[table]++
	return s.seq[table]
}

func (s *store) first(table string, index string, args ...interface{}) (interface{}, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	return txn.First(table, index, args...)
}

func (s *store) all(table string) ([]interface{}, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(table, "id")
	if err != nil {
		return nil, err
	}
	var out []interface{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		out = append(out, obj)
	}
	return out, nil
}

func (s *store) insert(table string, obj interface{}) error {
	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(table, obj); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// remove deletes the object with the given id and reports whether it existed
func (s *store) remove(table string, id int64) (bool, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()
	n, err := txn.DeleteAll(table, "id", id)
	if err != nil {
		return false, err
	}
	txn.Commit()
	return n > 0, nil
}

func (s *store) removeAll(table string) error {
	txn := s.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll(table, "id"); err != nil {
		return err
	}
	txn.Commit()
	return nil
}
