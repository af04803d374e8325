package forms

import "github.com/strrl/blogpessoal/internal/routes"

// Copy holds the fixed notice texts of one resource
type Copy struct {
	Created      string
	Updated      string
	CreateFailed string
	UpdateFailed string
	LoadFailed   string
	ListFailed   string
	Removed      string
	RemoveFailed string
}

var TemaCopy = Copy{
	Created:      "Tema cadastrado com sucesso",
	Updated:      "Tema atualizado com sucesso",
	CreateFailed: "Erro ao cadastrar o Tema",
	UpdateFailed: "Erro ao atualizar o Tema",
	LoadFailed:   "Erro ao buscar o Tema",
	ListFailed:   "Erro ao buscar os Temas",
	Removed:      "Tema apagado com sucesso",
	RemoveFailed: "Erro ao apagar o Tema",
}

var PostagemCopy = Copy{
	Created:      "Postagem cadastrada com sucesso",
	Updated:      "Postagem atualizada com sucesso",
	CreateFailed: "Erro ao cadastrar a Postagem",
	UpdateFailed: "Erro ao atualizar a Postagem",
	LoadFailed:   "Erro ao buscar a Postagem",
	ListFailed:   "Erro ao buscar as Postagens",
	Removed:      "Postagem apagada com sucesso",
	RemoveFailed: "Erro ao apagar a Postagem",
}

// Resource describes one backend collection to the controllers
type Resource struct {
	Name      string
	ListRoute string
	Copy      Copy
}

var (
	TemaResource     = Resource{Name: "tema", ListRoute: routes.Temas, Copy: TemaCopy}
	PostagemResource = Resource{Name: "postagem", ListRoute: routes.Postagens, Copy: PostagemCopy}
)
